// Package maven renders Maven coordinates as build-file dependency snippets.
//
// # Coordinates
//
// Maven artifacts are identified by coordinates in the format
// "groupId:artifactId:version". [ParseCoordinate] accepts that form and
// rejects anything else.
//
// # Snippets
//
// [Render] produces both renderings the catalog shows for a version:
//
//	s, err := maven.Render(maven.Coordinate{GroupID: "org.example", ArtifactID: "core", Version: "1.2.0"})
//	fmt.Println(s.POM)    // <dependency>...</dependency>
//	fmt.Println(s.Gradle) // implementation 'org.example:core:1.2.0'
//
// The POM fragment is produced with encoding/xml so coordinates containing
// markup characters are escaped.
package maven

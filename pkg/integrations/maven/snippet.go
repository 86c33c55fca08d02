package maven

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Coordinate identifies one artifact version.
type Coordinate struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
}

// String returns "groupId:artifactId:version".
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// Validate reports whether every part is present and free of separators.
func (c Coordinate) Validate() error {
	for _, p := range []struct{ name, value string }{
		{"groupId", c.GroupID},
		{"artifactId", c.ArtifactID},
		{"version", c.Version},
	} {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("invalid maven coordinate %q: %s is empty", c.String(), p.name)
		}
		if strings.ContainsAny(p.value, ": \t\r\n") {
			return fmt.Errorf("invalid maven coordinate %q: %s contains a separator", c.String(), p.name)
		}
	}
	return nil
}

// ParseCoordinate parses "groupId:artifactId:version".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("invalid maven coordinate %q (expected groupId:artifactId:version)", s)
	}
	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Snippets holds the dependency declaration for each supported build system.
type Snippets struct {
	POM    string `json:"pom"`
	Gradle string `json:"gradle"`
}

type pomDependency struct {
	XMLName    xml.Name `xml:"dependency"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Version    string   `xml:"version"`
}

// RenderPOM returns the <dependency> element for a Maven pom.xml.
func RenderPOM(c Coordinate) (string, error) {
	out, err := xml.MarshalIndent(pomDependency{
		GroupID:    c.GroupID,
		ArtifactID: c.ArtifactID,
		Version:    c.Version,
	}, "", "    ")
	if err != nil {
		return "", fmt.Errorf("render pom for %s: %w", c, err)
	}
	return string(out), nil
}

// RenderGradle returns the Gradle implementation line.
func RenderGradle(c Coordinate) string {
	return fmt.Sprintf("implementation '%s'", c)
}

// Render validates c and returns both snippets.
func Render(c Coordinate) (Snippets, error) {
	if err := c.Validate(); err != nil {
		return Snippets{}, err
	}
	pom, err := RenderPOM(c)
	if err != nil {
		return Snippets{}, err
	}
	return Snippets{POM: pom, Gradle: RenderGradle(c)}, nil
}

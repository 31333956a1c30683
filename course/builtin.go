package course

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/padraicbc/parkgolf/models"
)

//go:embed builtin.yaml
var builtinYAML []byte

type builtinFile struct {
	Venues []struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Courses []struct {
			Pars []int `yaml:"pars"`
		} `yaml:"courses"`
	} `yaml:"venues"`
}

// LoadBuiltIns parses the built-in venue list. An empty path uses the
// list compiled into the binary.
func LoadBuiltIns(path string) ([]models.Venue, error) {
	data := builtinYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading built-in venues: %w", err)
		}
		data = b
	}
	return parseBuiltIns(data)
}

func parseBuiltIns(data []byte) ([]models.Venue, error) {
	var f builtinFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing built-in venues: %w", err)
	}

	venues := make([]models.Venue, 0, len(f.Venues))
	for _, v := range f.Venues {
		if v.ID == "" || v.Name == "" {
			return nil, fmt.Errorf("built-in venue needs id and name")
		}
		rows := make([][]string, len(v.Courses))
		for i, c := range v.Courses {
			for _, p := range c.Pars {
				rows[i] = append(rows[i], fmt.Sprint(p))
			}
		}
		courses, err := buildSubCourses(rows)
		if err != nil {
			return nil, fmt.Errorf("built-in venue %q: %w", v.Name, err)
		}
		venues = append(venues, models.Venue{
			ID:      v.ID,
			Name:    v.Name,
			Courses: courses,
			BuiltIn: true,
		})
	}
	return venues, nil
}

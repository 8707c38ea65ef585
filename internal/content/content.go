// Package content holds the immutable site data: the searchable page
// corpus, the demo credential table and the quiz answer key.
package content

import (
	"fmt"

	"github.com/ashureev/mechanics-site/internal/domain"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Content is the site data handed to components at construction.
type Content struct {
	Pages       []domain.PageRecord `koanf:"pages"`
	Credentials []domain.Credential `koanf:"credentials"`
	Questions   []domain.Question   `koanf:"questions"`
}

// Default returns the built-in coursework content.
func Default() Content {
	return Content{
		Pages: []domain.PageRecord{
			{Title: "Home", URL: "index.html", Tags: "overview project purpose site-map search comments contact"},
			{Title: "Laws of Motion", URL: "laws-of-motion.html", Tags: "newton first second third inertia f=ma action reaction dynamics kinematics"},
			{Title: "Inclined Planes", URL: "inclined-planes.html", Tags: "incline slope friction angle component mg sin cos resolved forces"},
			{Title: "Pulley System", URL: "pulley-system.html", Tags: "pulleys atwood machine tension acceleration mass system"},
			{Title: "Forces", URL: "forces.html", Tags: "weight normal tension friction drag thrust free-body diagram"},
			{Title: "Quiz", URL: "quiz.html", Tags: "assessment questions test"},
			{Title: "Assignments", URL: "assignments.html", Tags: "homework tasks"},
			{Title: "Login", URL: "login.html", Tags: "form authentication privileges"},
		},
		Credentials: []domain.Credential{
			{Username: "teacher", Password: "mechanics123", Role: domain.RoleTeacher},
			{Username: "student", Password: "learn2move", Role: domain.RoleStudent},
		},
		Questions: []domain.Question{
			{Name: "q1", Kind: domain.KindChoice, Accept: []string{"2nd"}},
			{Name: "q2", Kind: domain.KindText, Accept: []string{"4", "4.0"}},
			{Name: "q3", Kind: domain.KindMulti, Accept: []string{"tension", "weight"}},
			{Name: "q4", Kind: domain.KindChoice, Accept: []string{"down-slope"}},
			{Name: "q5", Kind: domain.KindChoice, Accept: []string{"true"}},
		},
	}
}

// Load reads content from a YAML file. Sections missing from the file
// keep their built-in defaults. An empty path returns Default.
func Load(path string) (Content, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Content{}, fmt.Errorf("reading content %s: %w", path, err)
	}

	var loaded Content
	if err := k.Unmarshal("", &loaded); err != nil {
		return Content{}, fmt.Errorf("unmarshalling content: %w", err)
	}
	if len(loaded.Pages) > 0 {
		c.Pages = loaded.Pages
	}
	if len(loaded.Credentials) > 0 {
		c.Credentials = loaded.Credentials
	}
	if len(loaded.Questions) > 0 {
		c.Questions = loaded.Questions
	}

	if err := c.Validate(); err != nil {
		return Content{}, fmt.Errorf("invalid content %s: %w", path, err)
	}
	return c, nil
}

// Validate checks that loaded content is usable.
func (c Content) Validate() error {
	seen := make(map[string]bool, len(c.Pages))
	for _, p := range c.Pages {
		if p.URL == "" {
			return fmt.Errorf("page %q has no url", p.Title)
		}
		if seen[p.URL] {
			return fmt.Errorf("duplicate page url %q", p.URL)
		}
		seen[p.URL] = true
	}
	for _, cred := range c.Credentials {
		if cred.Username == "" {
			return fmt.Errorf("credential with empty username")
		}
		if !cred.Role.Grantable() {
			return fmt.Errorf("credential %q has invalid role %q", cred.Username, cred.Role)
		}
	}
	for _, q := range c.Questions {
		switch q.Kind {
		case domain.KindChoice, domain.KindText, domain.KindMulti:
		default:
			return fmt.Errorf("question %q has invalid kind %q", q.Name, q.Kind)
		}
		if q.Name == "" || len(q.Accept) == 0 {
			return fmt.Errorf("question %q needs a name and accepted answers", q.Name)
		}
	}
	return nil
}

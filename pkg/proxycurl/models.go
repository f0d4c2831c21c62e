package proxycurl

import "strings"

// Date is the split day/month/year form Proxycurl uses for experience dates.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Experience is one position on a LinkedIn profile.
type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartsAt    *Date  `json:"starts_at,omitempty"`
	EndsAt      *Date  `json:"ends_at,omitempty"`
}

// Education is one school entry on a LinkedIn profile.
type Education struct {
	School       string `json:"school"`
	DegreeName   string `json:"degree_name,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
}

// Profile is the subset of the Proxycurl person profile the enrichment flow uses.
type Profile struct {
	PublicIdentifier string       `json:"public_identifier"`
	FullName         string       `json:"full_name"`
	FirstName        string       `json:"first_name"`
	LastName         string       `json:"last_name"`
	Headline         string       `json:"headline"`
	Occupation       string       `json:"occupation"`
	Summary          string       `json:"summary"`
	City             string       `json:"city"`
	State            string       `json:"state"`
	CountryFullName  string       `json:"country_full_name"`
	Experiences      []Experience `json:"experiences"`
	Education        []Education  `json:"education"`
	Skills           []string     `json:"skills"`
	Interests        []string     `json:"interests"`
}

// CurrentPosition returns the first experience without an end date.
func (p *Profile) CurrentPosition() *Experience {
	for i := range p.Experiences {
		if p.Experiences[i].EndsAt == nil {
			return &p.Experiences[i]
		}
	}

	return nil
}

// Location joins city, state and country, skipping empty parts.
func (p *Profile) Location() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.City, p.State, p.CountryFullName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, ", ")
}

// ProfileURL returns the canonical profile URL for the public identifier.
func (p *Profile) ProfileURL() string {
	if p.PublicIdentifier == "" {
		return ""
	}

	return "https://www.linkedin.com/in/" + p.PublicIdentifier
}

// resolveResponse is the person lookup response with enrich_profile=enrich.
type resolveResponse struct {
	URL     string   `json:"url"`
	Profile *Profile `json:"profile"`
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/normafacile/backend/internal/fetch"
)

// SourceList enumerates the upstream document sources and the news feeds the
// augmenter reads.
type SourceList struct {
	Sources []fetch.SourceDescriptor `yaml:"sources"`
	Feeds   []string                 `yaml:"feeds"`
}

// LoadSources reads the YAML source list from path. A missing file yields the
// built-in defaults so a fresh checkout works without configuration.
func LoadSources(path string) (*SourceList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSources(), nil
		}
		return nil, fmt.Errorf("read sources file %s: %w", path, err)
	}

	var list SourceList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	if len(list.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s declares no sources", path)
	}
	return &list, nil
}

func defaultSources() *SourceList {
	return &SourceList{
		Sources: []fetch.SourceDescriptor{
			{Name: "Gazzetta Ufficiale", Endpoint: "https://www.gazzettaufficiale.it/ricerca/api/sommario", Kind: "official"},
			{Name: "Ministero dello Sviluppo Economico", Endpoint: "https://www.mise.gov.it/it/normativa", Kind: "ministry"},
			{Name: "Agenzia delle Entrate", Endpoint: "https://www.agenziaentrate.gov.it/portale/normativa-e-prassi/normativa", Kind: "agency"},
			{Name: "InfoCamere", Endpoint: "https://www.infocamere.it/normativa", Kind: "chamber"},
			{Name: "INPS", Endpoint: "https://www.inps.it/normativa", Kind: "institute"},
		},
		Feeds: []string{
			"https://www.ilsole24ore.com/rss/economia.xml",
			"https://www.corriere.it/rss/economia.xml",
			"https://www.repubblica.it/rss/economia/rss2.0.xml",
			"https://www.italiaoggi.it/rss/rss_economia.asp",
		},
	}
}

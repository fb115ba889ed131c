package enrich

import (
	"fmt"
	"strings"

	"github.com/normafacile/backend/internal/models"
)

const practicalCaseTemplate = `Caso pratico: applicazione della normativa "%s"

Scenario:
L'azienda XYZ, una piccola impresa con 15 dipendenti nel settore %s, vuole accedere alle agevolazioni previste.

Requisiti da soddisfare:
1. Essere iscritta al registro delle imprese
2. Avere sede legale in Italia
3. Dimostrare la sostenibilità del progetto

Passi da seguire:
1. Compilare la domanda secondo il modello disponibile sul sito %s
2. Allegare un business plan dettagliato
3. Inviare la documentazione entro la scadenza prevista

Benefici potenziali:
- Accesso a finanziamenti fino a 100.000€
- Riduzione del carico fiscale
- Supporto nella digitalizzazione aziendale`

// PracticalCase renders the fixed scenario/requirements/steps/benefits
// narrative for a document. Deterministic given the same document.
func PracticalCase(doc models.Document) string {
	sector := string(doc.Category)
	if i := strings.Index(sector, "_"); i > 0 {
		sector = sector[:i]
	}
	return fmt.Sprintf(practicalCaseTemplate, doc.Title, sector, doc.Source)
}

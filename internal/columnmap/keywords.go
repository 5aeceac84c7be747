package columnmap

import (
	"fmt"
	"os"

	"fjacquet/ledger-import/internal/models"

	"gopkg.in/yaml.v3"
)

// Keywords holds, per semantic field, the header names recognized by generic detection.
// Order matters: the first keyword present in the file wins.
type Keywords struct {
	Date        []string `yaml:"date"`
	Description []string `yaml:"description"`
	Amount      []string `yaml:"amount"`
	Debit       []string `yaml:"debit"`
	Credit      []string `yaml:"credit"`
	Account     []string `yaml:"account"`
	Category    []string `yaml:"category"`
}

// DefaultKeywords returns the French and English header vocabulary.
func DefaultKeywords() Keywords {
	return Keywords{
		Date:        []string{"date", "date operation", "date_operation", "dateop", "dateval", "date_val", "datum"},
		Description: []string{"description", "libelle", "libellé", "label", "details", "détails", "wording"},
		Amount:      []string{"montant", "amount", "somme", "valeur", "value"},
		Debit:       []string{"debit", "débit", "sortie", "dépense", "expense"},
		Credit:      []string{"credit", "crédit", "entrée", "revenu", "income"},
		Account:     []string{"accountnum", "account_num", "numero_compte", "account", "compte"},
		Category:    []string{"category", "categorie", "catégorie", "categoryparent"},
	}
}

// For returns the keywords of one field.
func (k Keywords) For(f models.Field) []string {
	switch f {
	case models.FieldDate:
		return k.Date
	case models.FieldDescription:
		return k.Description
	case models.FieldAmount:
		return k.Amount
	case models.FieldDebit:
		return k.Debit
	case models.FieldCredit:
		return k.Credit
	case models.FieldAccount:
		return k.Account
	case models.FieldCategory:
		return k.Category
	}
	return nil
}

// LoadKeywords reads a YAML keyword file. Fields absent from the file keep their defaults.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	data, err := os.ReadFile(path)
	if err != nil {
		return kw, fmt.Errorf("reading keywords file: %w", err)
	}
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return kw, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}
	return kw, nil
}

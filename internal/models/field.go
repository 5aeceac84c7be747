package models

import "fmt"

// Field is a semantic column of a statement file.
type Field int

const (
	FieldDate Field = iota
	FieldDescription
	FieldAmount
	FieldDebit
	FieldCredit
	FieldAccount
	FieldCategory
)

// Fields lists every semantic field in mapping order.
var Fields = []Field{
	FieldDate,
	FieldDescription,
	FieldAmount,
	FieldDebit,
	FieldCredit,
	FieldAccount,
	FieldCategory,
}

var fieldNames = map[Field]string{
	FieldDate:        "date",
	FieldDescription: "description",
	FieldAmount:      "amount",
	FieldDebit:       "debit",
	FieldCredit:      "credit",
	FieldAccount:     "account",
	FieldCategory:    "category",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ParseField resolves the lowercase name used in explicit mappings.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown column field %q", name)
}

func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

package connector

import "github.com/shopspring/decimal"

var boursobankAccounts = []Account{
	{ID: "FR7612345678901234567890123", Name: "Compte Courant", Number: "FR7612345678901234567890123",
		Balance: decimal.RequireFromString("2456.78"), Currency: "EUR", Type: "checking"},
	{ID: "FR7698765432109876543210987", Name: "Livret BoursoBank+", Number: "FR7698765432109876543210987",
		Balance: decimal.RequireFromString("15000.00"), Currency: "EUR", Type: "savings"},
}

var boursobankRecords = map[string][]entry{
	"FR7612345678901234567890123": {
		{1, "VIR SEPA SALAIRE ENTREPRISE", "2500.00"},
		{2, "PRLV SEPA LOYER", "-850.00"},
		{3, "CB CARREFOUR CITY", "-42.30"},
		{5, "CB SNCF PARIS", "-67.80"},
		{7, "PRLV SEPA EDF", "-85.50"},
		{10, "CB FNAC", "-129.99"},
	},
	"FR7698765432109876543210987": {
		{1, "VIR INTERNE EPARGNE", "500.00"},
		{15, "VIR INTERNE EPARGNE", "500.00"},
		{30, "INTERETS LIVRET", "12.50"},
	},
}

var cicAccounts = []Account{
	{ID: "12345678901", Name: "Compte Chèque", Number: "12345678901",
		Balance: decimal.RequireFromString("1823.45"), Currency: "EUR", Type: "checking"},
	{ID: "12345678902", Name: "Livret A", Number: "12345678902",
		Balance: decimal.RequireFromString("8500.00"), Currency: "EUR", Type: "savings"},
	{ID: "12345678903", Name: "PEA", Number: "12345678903",
		Balance: decimal.RequireFromString("25600.50"), Currency: "EUR", Type: "securities"},
}

var cicRecords = map[string][]entry{
	"12345678901": {
		{1, "VIR SALAIRE", "2800.00"},
		{2, "PRLV LOYER", "-950.00"},
		{3, "CB AUCHAN", "-78.45"},
		{4, "PRLV SEPA INTERNET", "-29.99"},
		{7, "PRLV ELECTRICITE", "-125.30"},
	},
	"12345678902": {
		{3, "VIR EPARGNE MENSUELLE", "300.00"},
		{20, "VIR EPARGNE MENSUELLE", "300.00"},
		{30, "INTERETS LIVRET A", "25.00"},
	},
	"12345678903": {
		{5, "ACHAT ACTIONS TOTAL", "-1500.00"},
		{10, "VENTE ACTIONS ORANGE", "800.00"},
		{15, "DIVIDENDES", "45.20"},
	},
}

package models

// Document collections used by the ingestion pipeline.
const (
	CollectionTransactions = "transactions"
	CollectionRules        = "rules"
	CollectionBankAccounts = "bank_accounts"
)

// DefaultDescription replaces an empty description cell.
const DefaultDescription = "Transaction importée"

// DateLayout is the calendar date layout used in persisted documents and rule files.
const DateLayout = "2006-01-02"

package logging

// Field names shared by every component so log output can be filtered consistently.
const (
	FieldFile       = "file_path"
	FieldRow        = "row"
	FieldBank       = "bank"
	FieldEncoding   = "encoding"
	FieldDelimiter  = "delimiter"
	FieldHeaders    = "headers"
	FieldMapping    = "mapping"
	FieldOwner      = "owner_id"
	FieldAccount    = "account_id"
	FieldExternalID = "external_id"
	FieldCategory   = "category_id"
	FieldRule       = "rule"
	FieldCollection = "collection"
	FieldCount      = "count"
	FieldImported   = "imported"
	FieldSkipped    = "skipped"
	FieldErrors     = "errors"
	FieldDuration   = "duration_ms"
	FieldConnector  = "connector"
)

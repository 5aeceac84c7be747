package rules

import (
	"context"
	"fmt"
	"os"

	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/store"

	"gopkg.in/yaml.v3"
)

// Source supplies a user's active rules in evaluation order.
type Source interface {
	ActiveRules(ctx context.Context, ownerID string) ([]models.Rule, error)
}

// DocumentSource reads rules from the store's rules collection.
type DocumentSource struct {
	store store.Store
}

// NewDocumentSource returns a Source backed by s.
func NewDocumentSource(s store.Store) *DocumentSource {
	return &DocumentSource{store: s}
}

func (d *DocumentSource) ActiveRules(ctx context.Context, ownerID string) ([]models.Rule, error) {
	docs, err := d.store.Find(ctx, models.CollectionRules, store.Filter{"user_id": ownerID, "is_active": true})
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	out := make([]models.Rule, 0, len(docs))
	for _, doc := range docs {
		var r models.Rule
		if err := store.Decode(doc, &r); err != nil {
			return nil, fmt.Errorf("decoding rule %v: %w", doc[store.IDField], err)
		}
		if id, ok := doc[store.IDField].(string); ok {
			r.ID = id
		}
		out = append(out, r)
	}
	return out, nil
}

// Save validates r and inserts it into the rules collection, returning its id.
func Save(ctx context.Context, s store.Store, r models.Rule) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	doc, err := store.Encode(r)
	if err != nil {
		return "", err
	}
	delete(doc, "id")
	if r.ID != "" {
		doc[store.IDField] = r.ID
	}
	return s.InsertOne(ctx, models.CollectionRules, doc)
}

// File is the YAML layout of a rules file.
type File struct {
	Rules []models.Rule `yaml:"rules"`
}

// LoadFile reads every rule from a YAML file, in file order.
func LoadFile(path string) ([]models.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	for i, r := range f.Rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rules file %s, entry %d: %w", path, i+1, err)
		}
	}
	return f.Rules, nil
}

// FileSource serves rules from a YAML file. Rules without an owner apply to everyone.
type FileSource struct {
	path string
}

// NewFileSource returns a Source reading path on every call.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) ActiveRules(_ context.Context, ownerID string) ([]models.Rule, error) {
	all, err := LoadFile(f.path)
	if err != nil {
		return nil, err
	}
	return filterActive(all, ownerID), nil
}

// StaticSource serves a fixed rule list.
type StaticSource []models.Rule

func (s StaticSource) ActiveRules(_ context.Context, ownerID string) ([]models.Rule, error) {
	return filterActive(s, ownerID), nil
}

func filterActive(all []models.Rule, ownerID string) []models.Rule {
	out := make([]models.Rule, 0, len(all))
	for _, r := range all {
		if !r.IsActive {
			continue
		}
		if r.OwnerID != "" && r.OwnerID != ownerID {
			continue
		}
		out = append(out, r)
	}
	return out
}

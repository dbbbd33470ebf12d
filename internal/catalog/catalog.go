// Package catalog loads and indexes the crafting recipe catalog.
//
// The catalog is read once at startup from a recipes.json file and is
// immutable for the lifetime of the process. Item identifiers are the
// join key between recipes and market data.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed recipes.schema.json
var recipesSchema string

// Ingredient is one material requirement of a recipe. Quantities <= 0 are
// kept on load but treated as no-ops by the evaluator.
type Ingredient struct {
	ItemID int    `json:"itemId"`
	Name   string `json:"name"`
	Qty    int    `json:"qty"`
}

// Recipe describes how one craftable item is produced: one execution of the
// recipe consumes the ingredients and yields OutputQty units.
type Recipe struct {
	ItemID      int          `json:"itemId"`
	Name        string       `json:"name"`
	OutputQty   int          `json:"outputQty"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Catalog is the loaded recipe set. Recipes preserves file order (the
// ranking pass iterates it), ByID is the lookup index used by the cost
// evaluator. Digest identifies the exact catalog content in logs and the
// health endpoint.
type Catalog struct {
	Recipes []Recipe
	ByID    map[int]Recipe
	Digest  string
}

// Load reads and validates recipes.json at path.
//
// The file is validated against the embedded JSON schema before decoding,
// so a malformed catalog fails loudly at startup instead of surfacing as
// odd costs later. Duplicate itemIds are last-writer-wins in the index.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Catalog from raw recipes.json bytes.
func Parse(raw []byte) (*Catalog, error) {
	schema, err := jsonschema.CompileString("recipes.schema.json", recipesSchema)
	if err != nil {
		return nil, fmt.Errorf("compile recipes schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate recipes: %w", err)
	}

	var recipes []Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}

	c := &Catalog{
		Recipes: recipes,
		ByID:    make(map[int]Recipe, len(recipes)),
		Digest:  fmt.Sprintf("%016x", xxhash.Sum64(raw)),
	}
	for _, r := range recipes {
		c.ByID[r.ItemID] = r
	}
	return c, nil
}

// Len returns the number of recipe entries (duplicates included).
func (c *Catalog) Len() int { return len(c.Recipes) }

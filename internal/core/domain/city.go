package domain

import (
	"fmt"
	"strings"
)

// Biome is the zone an item belongs to. Items are placed only in their own biome.
type Biome string

const (
	BiomeForest    Biome = "forest"
	BiomeDesert    Biome = "desert"
	BiomeGrassland Biome = "grassland"
	BiomeTundra    Biome = "tundra"
	BiomeOcean     Biome = "ocean"
	BiomeUrban     Biome = "urban"
)

var biomes = []Biome{BiomeForest, BiomeDesert, BiomeGrassland, BiomeTundra, BiomeOcean, BiomeUrban}

// Biomes lists every known biome in display order.
func Biomes() []Biome {
	out := make([]Biome, len(biomes))
	copy(out, biomes)
	return out
}

// ParseBiome accepts a biome name in any letter case.
func ParseBiome(s string) (Biome, error) {
	b := Biome(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range biomes {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: biome %q", ErrInvalidArgument, s)
}

// ItemCategory classifies city items.
type ItemCategory string

const (
	CategoryAnimal    ItemCategory = "animal"
	CategoryPlant     ItemCategory = "plant"
	CategoryStructure ItemCategory = "structure"
)

// CityItem is a catalog entry seen through one user's inventory.
// Placed implies Owned.
type CityItem struct {
	ID          string       `json:"id" bson:"_id"`
	Name        string       `json:"name" bson:"name"`
	Category    ItemCategory `json:"category" bson:"category"`
	Biome       Biome        `json:"biome" bson:"biome"`
	Cost        int          `json:"cost" bson:"cost"`
	Description string       `json:"description" bson:"description"`
	Owned       bool         `json:"owned" bson:"-"`
	Placed      bool         `json:"placed" bson:"-"`
}

// CatalogEntry is a shop row: an unowned item and whether the balance covers it.
type CatalogEntry struct {
	Item       CityItem `json:"item"`
	Affordable bool     `json:"affordable"`
}

// Affordable reports whether balance covers the item's cost.
func Affordable(item CityItem, balance int) bool {
	return item.Cost <= balance
}

// PurchasableCatalog returns the items not yet owned, in input order, each
// annotated with affordability against balance.
func PurchasableCatalog(items []CityItem, balance int) []CatalogEntry {
	out := make([]CatalogEntry, 0, len(items))
	for _, it := range items {
		if it.Owned {
			continue
		}
		out = append(out, CatalogEntry{Item: it, Affordable: Affordable(it, balance)})
	}
	return out
}

// PlacedItems returns the owned and placed items of a single biome.
func PlacedItems(items []CityItem, biome Biome) []CityItem {
	out := make([]CityItem, 0)
	for _, it := range items {
		if it.Owned && it.Placed && it.Biome == biome {
			out = append(out, it)
		}
	}
	return out
}

// CheckPurchase is the local half of a purchase: it rejects owned or
// unaffordable items before anything reaches the store.
func CheckPurchase(item CityItem, balance int) error {
	if item.Owned {
		return ErrAlreadyOwned
	}
	if !Affordable(item, balance) {
		return fmt.Errorf("%w: %s costs %d, balance is %d", ErrInsufficientPoints, item.Name, item.Cost, balance)
	}
	return nil
}

// CheckPlacement requires ownership and a matching biome.
func CheckPlacement(item CityItem, biome Biome) error {
	if !item.Owned {
		return ErrNotOwned
	}
	if item.Biome != biome {
		return fmt.Errorf("%w: %s lives in %s", ErrBiomeMismatch, item.Name, item.Biome)
	}
	return nil
}

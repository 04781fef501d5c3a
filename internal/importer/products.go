package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// ParseProducts maps rows to catalog products. Required columns: id, name,
// stock. Color variants are read from a JSON array column or from a
// "Color:#code:stock; ..." list.
func ParseProducts(t *Table) ([]domain.Product, error) {
	idIdx, err := t.require("id", "product_id")
	if err != nil {
		return nil, err
	}
	nameIdx, err := t.require("name", "product_name")
	if err != nil {
		return nil, err
	}
	stockIdx, err := t.require("stock", "qty")
	if err != nil {
		return nil, err
	}
	skuIdx, _ := t.column("sku")
	minIdx, _ := t.column("min_stock", "minimum_stock")
	levelIdx, _ := t.column("stock_warning_level", "warning_level")
	colorIdx, _ := t.column("color_variants", "colors")

	products := make([]domain.Product, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := t.Line(i)

		id := cell(row, idIdx)
		if id == "" {
			return nil, fmt.Errorf("row %d: empty id", line)
		}

		stock, err := parseCount(cell(row, stockIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid stock %q", line, cell(row, stockIdx))
		}
		minStock, err := parseCount(cell(row, minIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid min_stock %q", line, cell(row, minIdx))
		}

		level, ok := domain.ParseWarningLevel(cell(row, levelIdx))
		if !ok {
			return nil, fmt.Errorf("row %d: invalid stock_warning_level %q", line, cell(row, levelIdx))
		}

		variants, err := parseColorVariants(cell(row, colorIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		products = append(products, domain.Product{
			ID:                id,
			SKU:               cell(row, skuIdx),
			Name:              cell(row, nameIdx),
			Stock:             stock,
			MinStock:          minStock,
			ColorVariants:     variants,
			StockWarningLevel: level,
		})
	}

	return products, nil
}

func parseCount(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

func parseColorVariants(value string) (domain.ColorVariants, error) {
	if value == "" {
		return nil, nil
	}

	if strings.HasPrefix(value, "[") {
		var variants domain.ColorVariants
		if err := json.Unmarshal([]byte(value), &variants); err != nil {
			return nil, fmt.Errorf("invalid color variants json: %w", err)
		}
		return variants, nil
	}

	var variants domain.ColorVariants
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid color variant %q, want Color:#code:stock", entry)
		}
		stock, err := parseCount(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("invalid stock for color %q", parts[0])
		}
		variants = append(variants, domain.ColorVariant{
			Color:     strings.TrimSpace(parts[0]),
			ColorCode: strings.TrimSpace(parts[1]),
			Stock:     stock,
		})
	}
	return variants, nil
}

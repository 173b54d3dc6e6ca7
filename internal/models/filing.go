package models

import "fmt"

// FilingKey builds the composite cache key for one company/period combination.
// The key uniquely identifies a (stock id, year, season) triple; collisions
// are impossible by construction.
func FilingKey(stockID string, year, season int) string {
	return fmt.Sprintf("%s_%dQ%d", stockID, year, season)
}

// FilingTable is one structured table extracted from a rendered filing page.
type FilingTable struct {
	TableIndex int                 `json:"table_index"`
	Preview    string              `json:"preview"`
	Data       []map[string]string `json:"data"`
}

// TableSet holds the parsed tables for one composite key. A nil TableSet
// records a combination that yielded no tables (fetch failure or an empty
// reporting period); storing the miss avoids re-rendering it.
type TableSet []FilingTable

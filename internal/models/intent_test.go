package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeResource(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Resource
	}{
		{"news", "news", ResourceNews},
		{"mops maps to filings", "mops", ResourceFilings},
		{"filings", "filings", ResourceFilings},
		{"both", "both", ResourceBoth},
		{"empty defaults to both", "", ResourceBoth},
		{"unknown defaults to both", "everything", ResourceBoth},
		{"case insensitive", "News", ResourceNews},
		{"whitespace trimmed", "  mops ", ResourceFilings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeResource(tt.raw))
		})
	}
}

func TestIntentKeyword(t *testing.T) {
	tests := []struct {
		name     string
		intent   Intent
		expected string
	}{
		{"company and topic", Intent{Company: "台積電", Topic: "財報"}, "台積電財報"},
		{"company only", Intent{Company: "台積電"}, "台積電"},
		{"topic only", Intent{Topic: "關稅"}, "關稅"},
		{"both empty", Intent{}, ""},
		{"whitespace only", Intent{Company: "  "}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.intent.Keyword())
		})
	}
}

func TestIntentResourceSelectors(t *testing.T) {
	news := Intent{Resource: ResourceNews}
	assert.True(t, news.WantsNews())
	assert.False(t, news.WantsFilings())

	filings := Intent{Resource: ResourceFilings}
	assert.False(t, filings.WantsNews())
	assert.True(t, filings.WantsFilings())

	both := Intent{Resource: ResourceBoth}
	assert.True(t, both.WantsNews())
	assert.True(t, both.WantsFilings())
}

func TestCurrentPeriod(t *testing.T) {
	tests := []struct {
		month          time.Month
		expectedSeason int
	}{
		{time.January, 1},
		{time.March, 1},
		{time.April, 2},
		{time.June, 2},
		{time.July, 3},
		{time.September, 3},
		{time.October, 4},
		{time.December, 4},
	}

	for _, tt := range tests {
		now := time.Date(2025, tt.month, 15, 0, 0, 0, 0, time.UTC)
		year, season := CurrentPeriod(now)
		assert.Equal(t, 2025, year)
		assert.Equal(t, tt.expectedSeason, season, "month %s", tt.month)
	}
}

func TestFilingKey(t *testing.T) {
	assert.Equal(t, "2330_2024Q1", FilingKey("2330", 2024, 1))
	assert.Equal(t, "2603_2023Q4", FilingKey("2603", 2023, 4))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wedding/guesthub/internal/model"
)

func TestPhonesMatch(t *testing.T) {
	tests := []struct {
		name     string
		supplied string
		stored   string
		want     bool
	}{
		{"country code vs trunk prefix", "+61 400 123 456", "0400123456", true},
		{"country code without spaces", "+61412345678", "0412345678", true},
		{"punctuation ignored", "(04) 1234-5678", "0412345678", true},
		{"stored longer than supplied", "412345678", "+61 412 345 678", true},
		{"different numbers", "0412345678", "0412345679", false},
		{"too short", "345678", "0412345678", false},
		{"empty", "", "0412345678", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phonesMatch(tt.supplied, tt.stored))
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		supplied string
		stored   string
		want     float64
	}{
		{"Tim Smith", "Timothy Smith", 1},
		{"Tim Smith", "Timmy Smithson", 1},
		{"Jon Smyth", "John Smith", 0},
		{"john smith", "JOHN SMITH", 1},
		{"John Smith", "John Smith Jones", 2.0 / 3.0},
		{"Al Jo", "Al Jo", 0},
		{"John A. Smith", "John Smith", 1},
		{"", "John Smith", 0},
	}
	for _, tt := range tests {
		t.Run(tt.supplied+" vs "+tt.stored, func(t *testing.T) {
			assert.InDelta(t, tt.want, nameSimilarity(tt.supplied, tt.stored), 1e-9)
		})
	}
}

func TestFindByNameThresholdIsExclusive(t *testing.T) {
	// Four of five tokens match: exactly 0.8, which is not enough.
	guests := []model.Guest{{Name: "Anna Maria Louisa Beatrix Ortega"}}
	assert.Nil(t, findByName("Anna Maria Louisa Beatrix Castillo", guests))

	guests = append(guests, model.Guest{Name: "Anna Maria Louisa Beatrix Castillo"})
	got := findByName("Anna Maria Louisa Beatrix Castillo", guests)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Anna Maria Louisa Beatrix Castillo", got.Name)
	}
}

func TestFindByNamePrefersHighestScoreThenFetchOrder(t *testing.T) {
	guests := []model.Guest{
		{Name: "Tim Smith Jones Brown Green Black"},
		{Name: "Timmy Smithson"},
		{Name: "Tim Smith"},
	}
	got := findByName("Tim Smith", guests)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Timmy Smithson", got.Name, "ties keep the earlier guest")
	}
}

func TestFindByPhoneSkipsGuestsWithoutMobile(t *testing.T) {
	guests := []model.Guest{
		{Name: "No Phone"},
		{Name: "Has Phone", Mobile: "0412 345 678"},
	}
	got := findByPhone("+61412345678", guests)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Has Phone", got.Name)
	}
}

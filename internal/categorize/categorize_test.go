package categorize

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize_Defaults(t *testing.T) {
	c := Default()
	tests := []struct {
		text string
		want string
	}{
		{"COOP SUPERMERCATO", Groceries},
		{"Pagamento POS ESSELUNGA MILANO", Groceries},
		{"Rifornimento Q8 via Roma", Transport},
		{"UBER *TRIP", Transport},
		{"Pizzeria Da Michele", Dining},
		{"DELIVEROO ITALY", Dining},
		{"Bolletta ENEL Energia", Utilities},
		{"Affitto marzo", Housing},
		{"AMAZON EU SARL", Shopping},
		{"Farmacia Centrale", Health},
		{"NETFLIX.COM", Lifestyle},
		{"Accredito STIPENDIO marzo", Income},
		{"Versamento piano accumulo", Savings},
		{"Bonifico a Mario Rossi", Other},
		{"", Other},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Categorize(tt.text), "Categorize(%q)", tt.text)
	}
}

func TestCategorize_FirstRuleWins(t *testing.T) {
	// Both rules match; declaration order decides.
	c := New(
		Rule{Category: Dining, Keywords: []string{"bar"}},
		Rule{Category: Groceries, Keywords: []string{"coop"}},
	)
	assert.Equal(t, Dining, c.Categorize("COOP BAR"))

	c = New(
		Rule{Category: Groceries, Keywords: []string{"coop"}},
		Rule{Category: Dining, Keywords: []string{"bar"}},
	)
	assert.Equal(t, Groceries, c.Categorize("COOP BAR"))
}

func TestCategorize_TransportBeforeUtilities(t *testing.T) {
	// "treni" contains the utilities keyword "eni".
	assert.Equal(t, Transport, Default().Categorize("Biglietto TRENITALIA"))
}

func TestCategorizeMerchant(t *testing.T) {
	c := Default()
	assert.Equal(t, Groceries, c.CategorizeMerchant("CONAD", "POS 1234"))
	assert.Equal(t, Lifestyle, c.CategorizeMerchant("", "Spotify AB"))
}

func TestCategorize_Deterministic(t *testing.T) {
	c := Default()
	texts := []string{"COOP", "Netflix", "nothing here", "Farmacia", "Uber"}
	first := make([]string, len(texts))
	for i, txt := range texts {
		first[i] = c.Categorize(txt)
	}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := len(texts) - 1; i >= 0; i-- {
				assert.Equal(t, first[i], c.Categorize(texts[i]))
			}
		}()
	}
	wg.Wait()
}

func TestRules_ReturnsCopy(t *testing.T) {
	c := New(Rule{Category: Groceries, Keywords: []string{"COOP"}})
	rules := c.Rules()
	assert.Equal(t, []string{"coop"}, rules[0].Keywords)

	rules[0].Keywords[0] = "changed"
	assert.Equal(t, Groceries, c.Categorize("coop"))
}

func TestCanonical(t *testing.T) {
	c, ok := Canonical("alimentari")
	assert.True(t, ok)
	assert.Equal(t, Groceries, c)

	c, ok = Canonical(" Health ")
	assert.True(t, ok)
	assert.Equal(t, Health, c)

	_, ok = Canonical("Spesa")
	assert.False(t, ok)
	_, ok = Canonical("uncategorized")
	assert.False(t, ok)
}

func TestLocalize(t *testing.T) {
	assert.Equal(t, "Alimentari", Localize(Groceries, "it"))
	assert.Equal(t, "Altro", Localize(Other, "it"))
	assert.Equal(t, Groceries, Localize(Groceries, "en"))
	assert.Equal(t, "Custom", Localize("Custom", "it"))
}

func TestDefaultRules_CoverTaxonomy(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range DefaultRules() {
		assert.NotEmpty(t, r.Keywords, r.Category)
		_, ok := Canonical(r.Category)
		assert.True(t, ok, r.Category)
		seen[r.Category] = true
	}
	for _, c := range Taxonomy {
		if c == Other {
			continue
		}
		assert.True(t, seen[c], "no rule for %s", c)
	}
}

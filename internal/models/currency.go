package models

// HH.ru still reports rubles under the legacy RUR code.
var currencyAliases = map[string]string{
	"RUR": "RUB",
}

// NormalizeCurrency maps legacy currency codes to their canonical form.
// Unrecognized codes pass through unchanged.
func NormalizeCurrency(code string) string {
	if canonical, ok := currencyAliases[code]; ok {
		return canonical
	}
	return code
}

package render

import (
	"math/big"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	successStyle = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed)
	warningStyle = color.New(color.FgYellow)
	labelStyle   = color.New(color.Bold)
	faintStyle   = color.New(color.Faint)
	addressStyle = color.New(color.FgCyan)
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// FormatEther renders a wei amount in ether without trailing zeros
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	value := new(big.Rat).SetFrac(wei, weiPerEther).FloatString(18)
	value = strings.TrimRight(value, "0")
	value = strings.TrimSuffix(value, ".")
	return value + " ETH"
}

// titleCase turns constants such as VERIFIED or SUBMITTED into display words
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

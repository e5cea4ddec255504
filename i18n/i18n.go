// Package i18n holds the translations of litgen's own notifications and
// command output. Catalogs are gettext PO files compiled into the binary.
//
//	i18n.Init("pt")
//	logInfo(i18n.T("No changes"))
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Catalogs live at locales/<lang>/LC_MESSAGES/litgen.po.
//
//go:embed all:locales
var locales embed.FS

const domain = "litgen"

var (
	catalog *gotext.Locale
	current string
)

// Init loads the catalog for lang, or for the environment's language when
// lang is empty. Region and encoding are dropped: "pt_BR.UTF-8" loads "pt".
// A language without a catalog leaves every message in English.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	current = baseLanguage(lang)

	catalog = gotext.NewLocaleFSWithPath(current, locales, "locales")
	catalog.AddDomain(domain)
	catalog.SetDomain(domain)
}

// T returns the translation of msgid, or msgid itself.
func T(msgid string) string {
	if catalog == nil {
		return msgid
	}
	return catalog.Get(msgid)
}

// N picks the plural form of a message for n.
func N(singular, plural string, n int) string {
	if catalog == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return catalog.GetN(singular, plural, n)
}

// Language returns the catalog language in use, or "" before Init.
func Language() string {
	if catalog == nil {
		return ""
	}
	return current
}

// detectLanguage returns the first usable locale from LANGUAGE, LC_ALL,
// LC_MESSAGES and LANG, or "en".
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if env == "LANGUAGE" {
			// colon-separated preference list
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		switch val {
		case "", "C", "POSIX":
			continue
		}
		return val
	}
	return "en"
}

// baseLanguage reduces "pt_BR" or "pt-BR" to "pt".
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "_-"); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}

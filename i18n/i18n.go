package i18n

import (
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
	"github.com/rs/zerolog/log"
)

// EnvLang forces the UI language, bypassing locale detection.
const EnvLang = "MATCHTIMER_LANG"

var lang string

var supported = []string{"nb", "pt", "es"}

var translations = map[string]map[string]string{
	"Start": {
		"nb": "Start",
		"pt": "Iniciar",
		"es": "Iniciar",
	},
	"Stop": {
		"nb": "Stopp",
		"pt": "Parar",
		"es": "Parar",
	},
	"Clear events": {
		"nb": "Tøm hendelser",
		"pt": "Limpar eventos",
		"es": "Borrar eventos",
	},
	"Are you sure you want to clear all events?": {
		"nb": "Er du sikker på at du vil slette alle hendelser?",
		"pt": "Tem certeza de que deseja limpar todos os eventos?",
		"es": "¿Seguro que quieres borrar todos los eventos?",
	},
	"Timer is running...": {
		"nb": "Timeren går...",
		"pt": "Cronômetro em execução...",
		"es": "El temporizador está en marcha...",
	},
	"Timer is stopped.": {
		"nb": "Timeren er stoppet.",
		"pt": "Cronômetro parado.",
		"es": "El temporizador está detenido.",
	},
	"Please select a valid day and time.": {
		"nb": "Velg en gyldig dag og tid.",
		"pt": "Selecione um dia e horário válidos.",
		"es": "Selecciona un día y una hora válidos.",
	},
	"Error: ": {
		"nb": "Feil: ",
		"pt": "Erro: ",
		"es": "Error: ",
	},
	"Notice": {
		"nb": "Melding",
		"pt": "Aviso",
		"es": "Aviso",
	},
	"Day": {
		"nb": "Dag",
		"pt": "Dia",
		"es": "Día",
	},
	"Time": {
		"nb": "Tid",
		"pt": "Horário",
		"es": "Hora",
	},
	"Match duration (min)": {
		"nb": "Kamplengde (min)",
		"pt": "Duração da partida (min)",
		"es": "Duración del partido (min)",
	},
	"Pause duration (min)": {
		"nb": "Pauselengde (min)",
		"pt": "Duração da pausa (min)",
		"es": "Duración de la pausa (min)",
	},
	"Events": {
		"nb": "Hendelser",
		"pt": "Eventos",
		"es": "Eventos",
	},
	"Dark mode": {
		"nb": "Mørk modus",
		"pt": "Modo escuro",
		"es": "Modo oscuro",
	},
	"Server time": {
		"nb": "Servertid",
		"pt": "Hora do servidor",
		"es": "Hora del servidor",
	},
}

func init() {
	Reload()
}

// Reload selects the language again, for when the environment changed after
// start-up (e.g. a .env file was loaded).
func Reload() {
	lang = detect(os.Getenv(EnvLang), locale.GetLocales)
	log.Debug().Str("lang", lang).Msg("language selected")
}

// detect picks the language from the forced value or, failing that, the first
// system locale. Anything unsupported falls back to English.
func detect(forced string, locales func() ([]string, error)) string {
	if forced = strings.TrimSpace(forced); forced != "" {
		log.Debug().Str(EnvLang, forced).Msg("language forced by environment")
		return match(forced)
	}

	userLocales, err := locales()
	if err != nil {
		log.Debug().Err(err).Msg("could not get user locale, defaulting to english")
		return "en"
	}
	if len(userLocales) == 0 {
		log.Debug().Msg("no user locale detected, defaulting to english")
		return "en"
	}
	return match(userLocales[0])
}

func match(tag string) string {
	tag = strings.ToLower(tag)
	// Norwegian Bokmål is also reported as the macro language "no".
	if strings.HasPrefix(tag, "no") {
		return "nb"
	}
	for _, l := range supported {
		if strings.HasPrefix(tag, l) {
			return l
		}
	}
	return "en"
}

// T returns the translation of key, or key itself when none exists.
func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

// GetLang returns the selected language code.
func GetLang() string {
	return lang
}

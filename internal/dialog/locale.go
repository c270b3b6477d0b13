package dialog

import "github.com/zeynale/menubot/internal/models"

// Callback keys shared between the renderer and the transport wiring.
const (
	CallbackLang   = "lang"
	CallbackButton = "btn"
	CallbackGoto   = "goto"

	// GotoRootPayload addresses the virtual root menu in goto callbacks.
	GotoRootPayload = "root"
)

// AnonymousLabel is the button label that switches the user to anonymous mode
// and the display name stored for such users.
const AnonymousLabel = "ANONİM"

type phrases struct {
	endedThanks string
	notFound    string
	inactive    string
	langChosen  string
	anonChosen  string
	marker      string
	backLabel   string
	homeLabel   string
	rootTitle   string
}

var localeAz = phrases{
	endedThanks: "Söhbət bitdi. Təşəkkürlər!",
	notFound:    "Söhbət bitdi və ya sual tapılmadı.",
	inactive:    "Bot hal-hazırda aktiv deyil.",
	langChosen:  "Azərbaycan dili seçildi.",
	anonChosen:  "Anonim rejim seçildi.",
	marker:      "burada",
	backLabel:   "⬅️ Geri",
	homeLabel:   "🏠 Əsas menyu",
	rootTitle:   "Əsas menyu",
}

var localeRu = phrases{
	endedThanks: "Разговор окончен. Спасибо!",
	notFound:    "Разговор окончен или вопрос не найден.",
	inactive:    "Бот в данный момент не активен.",
	langChosen:  "Выбран русский язык.",
	anonChosen:  "Выбран анонимный режим.",
	marker:      "здесь",
	backLabel:   "⬅️ Назад",
	homeLabel:   "🏠 Главное меню",
	rootTitle:   "Главное меню",
}

// LanguagePrompt is bilingual on purpose: it is shown before a locale exists.
const LanguagePrompt = "Zəhmət olmasa dil seçin / Пожалуйста, выберите язык:"

func phrasesFor(lang string) phrases {
	if lang == models.LangRu {
		return localeRu
	}
	return localeAz
}

// LanguageButtons builds the inline keyboard of the language gate.
func LanguageButtons() [][]ButtonSpec {
	return [][]ButtonSpec{{
		{Label: "🇦🇿 Azərbaycan dili", Callback: CallbackLang, Payload: models.LangAz},
		{Label: "🇷🇺 Русский язык", Callback: CallbackLang, Payload: models.LangRu},
	}}
}

package language

import "strings"

// isoToAdapter maps primary ISO 639-1 subtags to the three-letter adapter
// codes used by translation providers.
var isoToAdapter = map[string]string{
	"ar": "ARA",
	"cs": "CSY",
	"de": "DEU",
	"en": "ENG",
	"es": "ESP",
	"fr": "FRA",
	"hr": "HRV",
	"hu": "HUN",
	"id": "IND",
	"it": "ITA",
	"ja": "JPN",
	"ko": "KOR",
	"nl": "NLD",
	"pl": "PLK",
	"pt": "PTB",
	"ro": "ROM",
	"ru": "RUS",
	"sr": "SRP",
	"th": "THA",
	"tr": "TRK",
	"uk": "UKR",
	"vi": "VIN",
	"zh": "CHS",
}

// traditionalChineseSubtags resolve zh variants to Traditional Chinese.
var traditionalChineseSubtags = map[string]struct{}{
	"hant": {},
	"tw":   {},
	"hk":   {},
	"mo":   {},
}

// AdapterCode converts an ISO language tag (for example "ja", "zh-TW",
// "pt_BR") to an adapter code, or returns an empty string for unknown tags.
func AdapterCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}

	primary := tag
	subtag := ""
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		primary = tag[:dash]
		subtag = tag[dash+1:]
	}

	if primary == "zh" {
		if _, ok := traditionalChineseSubtags[subtag]; ok {
			return "CHT"
		}
		return "CHS"
	}

	code, ok := isoToAdapter[primary]
	if !ok {
		return ""
	}
	return code
}

package domain

import "strings"

// Drug is the prescription target as submitted by the caller. Name is
// free text; Classification is informational and not used for rule lookup.
type Drug struct {
	Name           string   `json:"name"`
	Classification []string `json:"classification,omitempty"`
}

// DrugIdentity is the enumerated identity every rule table keys off.
// Free-text drug names are resolved to an identity exactly once at the
// engine boundary, so the rule tables never perform string matching
// themselves.
type DrugIdentity string

const (
	DrugDoxorubicin      DrugIdentity = "doxorubicin"
	DrugCarboplatin      DrugIdentity = "carboplatin"
	DrugCisplatin        DrugIdentity = "cisplatin"
	DrugOxaliplatin      DrugIdentity = "oxaliplatin"
	DrugFluorouracil     DrugIdentity = "fluorouracil"
	DrugCapecitabine     DrugIdentity = "capecitabine"
	DrugIrinotecan       DrugIdentity = "irinotecan"
	DrugMercaptopurine   DrugIdentity = "mercaptopurine"
	DrugAzathioprine     DrugIdentity = "azathioprine"
	DrugPaclitaxel       DrugIdentity = "paclitaxel"
	DrugTrastuzumab      DrugIdentity = "trastuzumab"
	DrugSulfamethoxazole DrugIdentity = "sulfamethoxazole"
	DrugUnknown          DrugIdentity = "unknown"
)

// drugAliases maps case-insensitive name substrings to identities. Longer,
// more specific aliases are listed per identity; resolution checks every
// alias so "liposomal doxorubicin 20mg" and "Adriamycin" both resolve to
// doxorubicin.
var drugAliases = []struct {
	substring string
	identity  DrugIdentity
}{
	{"doxorubicin", DrugDoxorubicin},
	{"adriamycin", DrugDoxorubicin},
	{"carboplatin", DrugCarboplatin},
	{"oxaliplatin", DrugOxaliplatin},
	{"cisplatin", DrugCisplatin},
	{"capecitabine", DrugCapecitabine},
	{"fluorouracil", DrugFluorouracil},
	{"5-fu", DrugFluorouracil},
	{"irinotecan", DrugIrinotecan},
	{"mercaptopurine", DrugMercaptopurine},
	{"azathioprine", DrugAzathioprine},
	{"paclitaxel", DrugPaclitaxel},
	{"trastuzumab", DrugTrastuzumab},
	{"sulfamethoxazole", DrugSulfamethoxazole},
}

// ResolveDrugIdentity maps a free-text drug name to its enumerated
// identity using case-insensitive substring matching. Unrecognized names
// resolve to DrugUnknown, which matches no rule table entry.
func ResolveDrugIdentity(name string) DrugIdentity {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return DrugUnknown
	}
	for _, alias := range drugAliases {
		if strings.Contains(lowered, alias.substring) {
			return alias.identity
		}
	}
	return DrugUnknown
}

// IsKnown reports whether the identity resolved to a drug the rule tables
// cover.
func (d DrugIdentity) IsKnown() bool { return d != DrugUnknown && d != "" }

// IsPlatinum reports whether the drug is a platinum agent, relevant for
// cross-sensitivity allergy checks.
func (d DrugIdentity) IsPlatinum() bool {
	switch d {
	case DrugCarboplatin, DrugCisplatin, DrugOxaliplatin:
		return true
	default:
		return false
	}
}

// IsMyelosuppressive reports whether the drug carries enough bone-marrow
// toxicity to gate treatment on neutrophil counts.
func (d DrugIdentity) IsMyelosuppressive() bool {
	switch d {
	case DrugDoxorubicin, DrugCarboplatin, DrugPaclitaxel:
		return true
	default:
		return false
	}
}

// IsCardiotoxic reports whether the drug requires cardiac-function gating.
func (d DrugIdentity) IsCardiotoxic() bool {
	switch d {
	case DrugDoxorubicin, DrugTrastuzumab:
		return true
	default:
		return false
	}
}

// String returns the string representation of the drug identity.
func (d DrugIdentity) String() string { return string(d) }

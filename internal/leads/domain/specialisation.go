package domain

// Specialisations is the fixed set of medical specialties a lead can be
// referred for. "Other" is the catch-all.
var Specialisations = []string{
	"Orthopaedics",
	"Urology",
	"Cardiology",
	"Neurology",
	"Oncology",
	"Gastroenterology",
	"Nephrology",
	"ENT",
	"General Surgery",
	"Other",
}

var knownSpecialisations = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Specialisations))
	for _, s := range Specialisations {
		m[s] = struct{}{}
	}
	return m
}()

func IsKnownSpecialisation(s string) bool {
	_, ok := knownSpecialisations[s]
	return ok
}

package bias

// Type classifies the kind of bias detected in a query.
type Type string

const (
	TypeGender    Type = "gender"
	TypeRacial    Type = "racial"
	TypeReligious Type = "religious"
	TypeAge       Type = "age"
	TypeOther     Type = "other"
)

// keywordTable maps bias types to trigger phrases. Matching is a
// case-insensitive substring check on the lowercased query, so entries must be
// lowercase. This is the deterministic fallback when the model classifier is
// unreachable; it must never fail.
var keywordTable = []struct {
	biasType Type
	phrases  []string
}{
	{TypeGender, []string{
		"women can't",
		"women cannot",
		"girls can't",
		"women are bad at",
		"women don't belong",
		"women shouldn't work",
		"men are better",
		"a woman's place",
		"too emotional to",
	}},
	{TypeRacial, []string{
		"people of that race",
		"they are all lazy",
		"those people are criminals",
		"inferior race",
	}},
	{TypeReligious, []string{
		"that religion is violent",
		"people of that faith are",
		"religious people are stupid",
	}},
	{TypeAge, []string{
		"too old to work",
		"too old to learn",
		"old people can't",
		"young people are useless",
	}},
	{TypeOther, []string{
		"those people don't deserve",
		"should not be allowed to work",
	}},
}

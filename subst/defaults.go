package subst

// The stock substitution tables.  Operators can replace or extend
// these via LoadTables.

// DefaultGender swaps third-person singular pronoun genders.
var DefaultGender = map[string]string{
	"he":      "she",
	"him":     "her",
	"his":     "her",
	"himself": "herself",
	"she":     "he",
	"her":     "him",
	"hers":    "his",
	"herself": "himself",
}

// DefaultPerson swaps first-person and third-person pronouns.
var DefaultPerson = map[string]string{
	"I":       "he",
	"me":      "him",
	"my":      "his",
	"mine":    "his",
	"myself":  "himself",
	"he":      "I",
	"him":     "me",
	"his":     "my",
	"himself": "myself",
	"she":     "I",
	"her":     "me",
	"hers":    "mine",
	"herself": "myself",
}

// DefaultPerson2 swaps first-person and second-person pronouns.
var DefaultPerson2 = map[string]string{
	"I":        "you",
	"me":       "you",
	"my":       "your",
	"mine":     "yours",
	"myself":   "yourself",
	"you":      "me",
	"your":     "my",
	"yours":    "mine",
	"yourself": "myself",
	"am":       "are",
}

// DefaultNormal expands contractions and fixes common misspellings in
// user input before matching.
var DefaultNormal = map[string]string{
	"wanna":     "want to",
	"gonna":     "going to",
	"gotta":     "got to",
	"I'm":       "I am",
	"I'd":       "I would",
	"I'll":      "I will",
	"I've":      "I have",
	"you'd":     "you would",
	"you're":    "you are",
	"you've":    "you have",
	"you'll":    "you will",
	"he's":      "he is",
	"he'd":      "he would",
	"he'll":     "he will",
	"she's":     "she is",
	"she'd":     "she would",
	"she'll":    "she will",
	"we'd":      "we would",
	"we're":     "we are",
	"we'll":     "we will",
	"we've":     "we have",
	"they're":   "they are",
	"they'd":    "they would",
	"they'll":   "they will",
	"they've":   "they have",
	"y'all":     "you all",
	"can't":     "can not",
	"cannot":    "can not",
	"couldn't":  "could not",
	"wouldn't":  "would not",
	"shouldn't": "should not",
	"isn't":     "is not",
	"ain't":     "is not",
	"don't":     "do not",
	"doesn't":   "does not",
	"didn't":    "did not",
	"aren't":    "are not",
	"weren't":   "were not",
	"wasn't":    "was not",
	"won't":     "will not",
	"hasn't":    "has not",
	"haven't":   "have not",
	"hadn't":    "had not",
	"it's":      "it is",
	"it'd":      "it would",
	"it'll":     "it will",
	"that's":    "that is",
	"that'd":    "that would",
	"that'll":   "that will",
	"there's":   "there is",
	"there'd":   "there would",
	"there'll":  "there will",
	"what's":    "what is",
	"what'd":    "what did",
	"what'll":   "what will",
	"who's":     "who is",
	"who'd":     "who would",
	"who'll":    "who will",
	"where's":   "where is",
	"when's":    "when is",
	"why's":     "why is",
	"how's":     "how is",
	"let's":     "let us",
	"whats":     "what is",
	"hows":      "how is",
	"whos":      "who is",
	"wheres":    "where is",
	"becasue":   "because",
	"becuase":   "because",
	"becouse":   "because",
	"practise":  "practice",
	"reckon":    "think",
	"realise":   "realize",
	"favourite": "favorite",
	"colour":    "color",
}

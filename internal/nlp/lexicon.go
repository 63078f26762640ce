package nlp

// defaultLexicon is a small news-oriented English polarity/subjectivity lexicon.
// Neutral reporting verbs carry zero polarity and low subjectivity so that
// attributed, factual text pulls subjectivity down.
func defaultLexicon() map[string]entry {
	return map[string]entry{
		// positive
		"good":         {0.7, 0.6},
		"great":        {0.8, 0.75},
		"excellent":    {1.0, 1.0},
		"amazing":      {0.6, 0.9},
		"wonderful":    {1.0, 1.0},
		"best":         {1.0, 0.3},
		"better":       {0.5, 0.5},
		"positive":     {0.23, 0.55},
		"success":      {0.3, 0.4},
		"successful":   {0.75, 0.95},
		"improve":      {0.3, 0.3},
		"improved":     {0.3, 0.3},
		"growth":       {0.2, 0.2},
		"gain":         {0.2, 0.3},
		"gains":        {0.2, 0.3},
		"win":          {0.5, 0.4},
		"won":          {0.4, 0.3},
		"benefit":      {0.3, 0.3},
		"strong":       {0.43, 0.73},
		"safe":         {0.5, 0.5},
		"hope":         {0.3, 0.6},
		"happy":        {0.8, 1.0},
		"praise":       {0.5, 0.6},
		"support":      {0.2, 0.3},
		"agreement":    {0.2, 0.2},
		"recovery":     {0.2, 0.2},
		"breakthrough": {0.5, 0.5},
		"incredible":   {0.9, 0.9},
		"beautiful":    {0.85, 1.0},
		"love":         {0.5, 0.6},
		"fantastic":    {0.4, 0.9},
		"perfect":      {1.0, 1.0},

		// negative
		"bad":          {-0.7, 0.67},
		"terrible":     {-1.0, 1.0},
		"horrible":     {-1.0, 1.0},
		"awful":        {-1.0, 1.0},
		"worst":        {-1.0, 1.0},
		"worse":        {-0.4, 0.6},
		"negative":     {-0.3, 0.4},
		"fail":         {-0.5, 0.3},
		"failed":       {-0.5, 0.3},
		"failure":      {-0.3, 0.3},
		"crisis":       {-0.4, 0.4},
		"disaster":     {-0.6, 0.6},
		"devastating":  {-0.8, 0.9},
		"catastrophic": {-0.9, 0.9},
		"outrageous":   {-0.6, 1.0},
		"shocking":     {-0.8, 0.9},
		"scandal":      {-0.5, 0.6},
		"corrupt":      {-0.6, 0.7},
		"dangerous":    {-0.6, 0.9},
		"threat":       {-0.4, 0.4},
		"attack":       {-0.4, 0.3},
		"killed":       {-0.4, 0.2},
		"death":        {-0.4, 0.2},
		"decline":      {-0.2, 0.2},
		"losses":       {-0.3, 0.2},
		"loss":         {-0.3, 0.2},
		"fear":         {-0.5, 0.7},
		"angry":        {-0.5, 1.0},
		"hate":         {-0.8, 0.9},
		"stupid":       {-0.8, 1.0},
		"evil":         {-1.0, 1.0},
		"lies":         {-0.6, 0.8},
		"fake":         {-0.5, 1.0},
		"sad":          {-0.5, 1.0},
		"weak":         {-0.38, 0.66},
		"wrong":        {-0.5, 0.9},
		"unbelievable": {-0.5, 0.9},
		"insane":       {-0.5, 1.0},

		// subjective but neutral
		"clearly":     {0.1, 0.4},
		"obviously":   {0.0, 0.5},
		"believe":     {0.0, 0.8},
		"think":       {0.0, 0.7},
		"feel":        {0.0, 0.8},
		"seems":       {0.0, 0.6},
		"apparently":  {0.05, 0.35},
		"surprising":  {0.0, 0.8},
		"important":   {0.4, 1.0},
		"interesting": {0.5, 0.5},

		// reporting vocabulary
		"reported":  {0.0, 0.0},
		"according": {0.0, 0.0},
		"announced": {0.0, 0.0},
		"stated":    {0.0, 0.1},
		"confirmed": {0.1, 0.1},
		"official":  {0.0, 0.0},
		"data":      {0.0, 0.0},
		"percent":   {0.0, 0.0},
		"study":     {0.0, 0.0},
		"published": {0.0, 0.0},
	}
}

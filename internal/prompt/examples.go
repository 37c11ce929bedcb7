package prompt

// ExampleQuestions are shown by the help command and replayed by the benchmark.
var ExampleQuestions = []string{
	"What's the cheapest property?",
	"Which properties have parking for at least two cars?",
	"Show me places with three or more bedrooms.",
	"What can I rent in Brazil?",
	"What is the average nightly price?",
	"Which property is the most expensive, and where is it?",
}

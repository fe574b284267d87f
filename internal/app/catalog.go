package app

import "codeamongus/internal/domain"

// PlayerColors is the palette handed out to joining players, in order
var PlayerColors = []string{
	"#FF0000", "#0000FF", "#00AA00", "#FF69B4", "#FFA500",
	"#FFFF00", "#222222", "#FFFFFF", "#8A2BE2", "#00CED1",
}

// SpawnPoint is where players appear on join
var SpawnPoint = domain.Position{X: 100, Y: 100}

// DefaultTasks returns the coding tasks placed on every new map
func DefaultTasks() []domain.CodingTask {
	return []domain.CodingTask{
		{
			ID:              "1",
			X:               200,
			Y:               200,
			Question:        "Double the Number",
			Description:     "Write a function that takes a number as input and returns its double.",
			BoilerplateCode: "function doubleNumber(num) {\n  // Write your code here\n  \n}",
			TestCases: []domain.TestCase{
				{Input: "2", ExpectedOutput: "4"},
				{Input: "-3", ExpectedOutput: "-6"},
				{Input: "0", ExpectedOutput: "0"},
			},
			HintComment: "Multiply the input number by 2",
		},
		{
			ID:              "2",
			X:               300,
			Y:               300,
			Question:        "Greet User",
			Description:     "Complete the function to return a greeting message.",
			BoilerplateCode: "function greetUser(name) {\n    // TODO: Return \"Hello, [name]!\"\n    return \"Hello, \" + \n}",
			TestCases: []domain.TestCase{
				{Input: "Alice", ExpectedOutput: "Hello, Alice!"},
				{Input: "Bob", ExpectedOutput: "Hello, Bob!"},
			},
			HintComment: "Add the name parameter and an exclamation mark",
		},
		{
			ID:              "3",
			X:               400,
			Y:               200,
			Question:        "Is Even Number",
			Description:     "Complete the function to check if a number is even.",
			BoilerplateCode: "function isEven(num) {\n    // TODO: Return true if num is even, false otherwise\n    // Hint: Use the modulo operator %\n    return num \n}",
			TestCases: []domain.TestCase{
				{Input: "4", ExpectedOutput: "true"},
				{Input: "7", ExpectedOutput: "false"},
				{Input: "0", ExpectedOutput: "true"},
			},
			HintComment: "A number is even if dividing by 2 has no remainder",
		},
	}
}

// colorFor returns the palette color for the n-th joining player
func colorFor(n int) string {
	return PlayerColors[n%len(PlayerColors)]
}

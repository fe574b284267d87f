package domain

// TestCase is one input/expected-output pair of a coding task
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// CodingTask is a coding exercise placed on the map
type CodingTask struct {
	ID              string     `json:"id"`
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
	Question        string     `json:"question"`
	Description     string     `json:"description"`
	BoilerplateCode string     `json:"boilerplateCode"`
	TestCases       []TestCase `json:"testCases"`
	HintComment     string     `json:"hintComment"`
	Completed       bool       `json:"completed"`
}

// Position returns the task's location on the map
func (t CodingTask) Position() Position {
	return Position{X: t.X, Y: t.Y}
}

// FindTask returns the task with the given ID
func FindTask(tasks []CodingTask, taskID string) (CodingTask, bool) {
	for _, t := range tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return CodingTask{}, false
}

// CompletedTaskCount returns how many tasks are completed
func CompletedTaskCount(tasks []CodingTask) int {
	count := 0
	for _, t := range tasks {
		if t.Completed {
			count++
		}
	}
	return count
}

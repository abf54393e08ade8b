package education

import (
	"fmt"
	"strings"

	"github.com/aristath/qscope/internal/quantum"
)

// TutorialStep is one page of a guided tutorial. Circuit, when set,
// is a runnable example for the step.
type TutorialStep struct {
	Title   string           `json:"title"`
	Body    string           `json:"body"`
	Circuit *quantum.Circuit `json:"circuit,omitempty"`
}

// Tutorial is a guided walkthrough pitched at one difficulty level.
type Tutorial struct {
	Level Level          `json:"level"`
	Title string         `json:"title"`
	Steps []TutorialStep `json:"steps"`
}

var tutorials = map[Level]Tutorial{
	LevelBeginner: {
		Level: LevelBeginner,
		Title: "Your first qubit",
		Steps: []TutorialStep{
			{
				Title: "The ground state",
				Body: "A fresh register starts in |0...0⟩. Run an empty circuit and check the " +
					"probability view: the all-zeros outcome has probability 1.",
			},
			{
				Title: "Flipping a bit",
				Body:  "The X gate swaps |0⟩ and |1⟩. After X on qubit 0 a measurement returns 1 with certainty.",
				Circuit: &quantum.Circuit{Gates: []quantum.Gate{
					{Kind: quantum.GateX, Qubit: 0, Position: 0},
				}},
			},
			{
				Title: "A fair coin",
				Body: "The Hadamard gate puts a qubit in equal superposition. Both outcomes now " +
					"appear with probability 0.5, like a coin toss.",
				Circuit: &quantum.Circuit{Gates: []quantum.Gate{
					{Kind: quantum.GateH, Qubit: 0, Position: 0},
				}},
			},
		},
	},
	LevelIntermediate: {
		Level: LevelIntermediate,
		Title: "Phases and interference",
		Steps: []TutorialStep{
			{
				Title: "An invisible flip",
				Body: "Apply H then Z. The measurement probabilities are still 0.5/0.5, but the " +
					"Bloch vector has moved: Z flipped the sign of the |1⟩ amplitude.",
				Circuit: &quantum.Circuit{Gates: []quantum.Gate{
					{Kind: quantum.GateH, Qubit: 0, Position: 0},
					{Kind: quantum.GateZ, Qubit: 0, Position: 1},
				}},
			},
			{
				Title: "Making the phase visible",
				Body: "Close the sandwich with a second H. The hidden phase flip becomes a " +
					"deterministic bit flip: the qubit measures 1 with certainty.",
				Circuit: &quantum.Circuit{Gates: []quantum.Gate{
					{Kind: quantum.GateH, Qubit: 0, Position: 0},
					{Kind: quantum.GateZ, Qubit: 0, Position: 1},
					{Kind: quantum.GateH, Qubit: 0, Position: 2},
				}},
			},
			{
				Title: "Cancellation",
				Body: "Two H gates in a row undo each other. Step through the simulation and " +
					"watch the amplitudes interfere back to the ground state.",
				Circuit: &quantum.Circuit{Gates: []quantum.Gate{
					{Kind: quantum.GateH, Qubit: 0, Position: 0},
					{Kind: quantum.GateH, Qubit: 0, Position: 1},
				}},
			},
		},
	},
	LevelAdvanced: {
		Level: LevelAdvanced,
		Title: "Reading the analytics",
		Steps: []TutorialStep{
			{
				Title: "Entropy and participation",
				Body: "H on every qubit of a 3-qubit register spreads probability over all 8 basis " +
					"states: distribution entropy 3 bits, participation ratio 8.",
				Circuit: &quantum.Circuit{Gates: []quantum.Gate{
					{Kind: quantum.GateH, Qubit: 0, Position: 0},
					{Kind: quantum.GateH, Qubit: 1, Position: 0},
					{Kind: quantum.GateH, Qubit: 2, Position: 0},
				}},
			},
			{
				Title: "Coherence measures",
				Body: "Compare the l1 coherence of the ground state (zero) against the " +
					"superposition ladder. Off-diagonal structure is what the measure counts.",
			},
			{
				Title: "Bloch vectors per qubit",
				Body: "Every product state keeps unit-length Bloch vectors. A shrunken vector in " +
					"the per-qubit view is the signature of entanglement with the rest of the register.",
			},
		},
	},
}

// TutorialForLevel returns the guided tutorial for a level. Unlike
// ParseLevel this is strict: an unknown level reports false.
func TutorialForLevel(level string) (Tutorial, bool) {
	t, ok := tutorials[Level(strings.ToLower(strings.TrimSpace(level)))]
	return t, ok
}

// Per-concept practice exercises referenced by learning paths.
var conceptExercises = map[string][]string{
	"superposition": {
		"Put one qubit in equal superposition and verify both probabilities are 0.5.",
		"Build the uniform superposition over 3 qubits with three H gates.",
	},
	"measurement": {
		"Construct a circuit whose final distribution has exactly two equally likely outcomes.",
		"Check that the probabilities in any final state sum to 1.",
	},
	"phase": {
		"Apply H then Z and confirm the probabilities do not change.",
		"Add a second H after H·Z and explain the deterministic outcome.",
	},
	"interference": {
		"Cancel an H gate with a second H and watch the state return to |0⟩.",
		"Find a gate sequence where amplitudes cancel on one outcome.",
	},
	"entanglement": {
		"Run the analytics on a product state and confirm the classification is separable.",
		"Explain why no single-qubit circuit can move the classification away from separable.",
	},
	"bloch-sphere": {
		"Map |0⟩, |1⟩ and (|0⟩+|1⟩)/√2 to their Bloch vectors.",
		"Predict the Bloch vector after X·H on one qubit, then simulate to check.",
	},
}

// Estimated study time per difficulty level.
var levelStudyTime = map[Level]string{
	LevelBeginner:     "15 minutes",
	LevelIntermediate: "25 minutes",
	LevelAdvanced:     "40 minutes",
}

// Prerequisite concepts, keyed by concept ID.
var conceptPrerequisites = map[string][]string{
	"measurement":  {"superposition"},
	"phase":        {"superposition"},
	"interference": {"superposition", "phase"},
	"entanglement": {"measurement", "superposition"},
	"bloch-sphere": {"superposition"},
}

// PathEntry is one recommended study item in a learning path.
type PathEntry struct {
	Concept           Concept  `json:"concept"`
	Prerequisites     []string `json:"prerequisites,omitempty"`
	ExampleAlgorithms []string `json:"example_algorithms,omitempty"`
	Exercises         []string `json:"exercises,omitempty"`
	EstimatedTime     string   `json:"estimated_time"`
}

const maxPathEntries = 5

// LearningPath recommends the concepts not yet completed, in library
// order, capped at five entries.
func (e *Engine) LearningPath(completed []string, difficulty Level) []PathEntry {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[strings.ToLower(strings.TrimSpace(id))] = true
	}

	path := []PathEntry{}
	for _, c := range concepts {
		if done[c.ID] {
			continue
		}
		entry := PathEntry{
			Concept:       c,
			Prerequisites: conceptPrerequisites[c.ID],
			Exercises:     conceptExercises[c.ID],
			EstimatedTime: levelStudyTime[difficulty],
		}
		for _, a := range algorithms {
			for _, id := range a.Concepts {
				if id == c.ID {
					entry.ExampleAlgorithms = append(entry.ExampleAlgorithms, a.Name)
					break
				}
			}
		}
		path = append(path, entry)
		if len(path) == maxPathEntries {
			break
		}
	}
	return path
}

// QuestionType selects the shape of generated practice questions.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillBlank      QuestionType = "fill_blank"
)

// ParseQuestionType validates a question type string.
func ParseQuestionType(s string) (QuestionType, error) {
	qt := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	switch qt {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionFillBlank:
		return qt, nil
	case "":
		return QuestionMultipleChoice, nil
	default:
		return "", fmt.Errorf("unknown question type: %s", s)
	}
}

// Question is one practice question. Options is populated for
// multiple-choice questions only.
type Question struct {
	Type        QuestionType `json:"type"`
	Prompt      string       `json:"prompt"`
	Options     []string     `json:"options,omitempty"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation,omitempty"`
}

var questionBank = map[string]map[QuestionType][]Question{
	"superposition": {
		QuestionMultipleChoice: {
			{
				Prompt:      "What does H do to a qubit in |0⟩?",
				Options:     []string{"Nothing", "Flips it to |1⟩", "Creates an equal superposition", "Measures it"},
				Answer:      "Creates an equal superposition",
				Explanation: "H maps |0⟩ to (|0⟩ + |1⟩)/√2, giving both outcomes probability 0.5.",
			},
			{
				Prompt:  "How many basis states does H on every qubit of a 2-qubit register populate?",
				Options: []string{"1", "2", "3", "4"},
				Answer:  "4",
			},
		},
		QuestionTrueFalse: {
			{
				Prompt:      "A qubit in superposition has already decided its measurement outcome.",
				Answer:      "false",
				Explanation: "The outcome is only determined at measurement, with Born-rule probabilities.",
			},
		},
		QuestionFillBlank: {
			{
				Prompt: "The amplitudes of a valid state always satisfy Σ|amplitude|² = ___.",
				Answer: "1",
			},
		},
	},
	"measurement": {
		QuestionMultipleChoice: {
			{
				Prompt:  "The probability of measuring basis state |i⟩ equals:",
				Options: []string{"The amplitude itself", "The squared amplitude magnitude", "The phase of the amplitude", "Always 1/2ⁿ"},
				Answer:  "The squared amplitude magnitude",
			},
		},
		QuestionTrueFalse: {
			{
				Prompt:      "Measurement probabilities can sum to more than 1 for deep circuits.",
				Answer:      "false",
				Explanation: "Unitary gates preserve normalization, so probabilities always sum to 1.",
			},
		},
		QuestionFillBlank: {
			{
				Prompt: "The rule assigning probability |amplitude|² to each outcome is called the ___ rule.",
				Answer: "Born",
			},
		},
	},
	"phase": {
		QuestionMultipleChoice: {
			{
				Prompt:      "What does Z do to measurement probabilities on its own?",
				Options:     []string{"Doubles them", "Swaps them", "Nothing", "Sets them to 0.5"},
				Answer:      "Nothing",
				Explanation: "Z only flips the sign of the |1⟩ amplitude; magnitudes are unchanged.",
			},
		},
		QuestionTrueFalse: {
			{
				Prompt: "H·Z·H applied to |0⟩ yields |1⟩ with certainty.",
				Answer: "true",
			},
		},
		QuestionFillBlank: {
			{
				Prompt: "The Z gate multiplies the |1⟩ amplitude by ___.",
				Answer: "-1",
			},
		},
	},
	"interference": {
		QuestionMultipleChoice: {
			{
				Prompt:  "Two equal and opposite amplitudes reaching the same basis state will:",
				Options: []string{"Add up", "Cancel out", "Multiply", "Randomize"},
				Answer:  "Cancel out",
			},
		},
		QuestionTrueFalse: {
			{
				Prompt:      "Two H gates in a row on the same qubit restore its previous state.",
				Answer:      "true",
				Explanation: "H is self-inverse; the second application interferes the amplitudes back.",
			},
		},
		QuestionFillBlank: {
			{
				Prompt: "Amplitudes combine like ___, so they can reinforce or cancel.",
				Answer: "waves",
			},
		},
	},
	"entanglement": {
		QuestionMultipleChoice: {
			{
				Prompt:  "Which signature marks an entangled qubit in the per-qubit view?",
				Options: []string{"A longer Bloch vector", "A shrunken Bloch vector", "A negative probability", "A missing amplitude"},
				Answer:  "A shrunken Bloch vector",
			},
		},
		QuestionTrueFalse: {
			{
				Prompt:      "Single-qubit gates alone can entangle two qubits.",
				Answer:      "false",
				Explanation: "Entangling requires a multi-qubit interaction; product states stay separable.",
			},
		},
		QuestionFillBlank: {
			{
				Prompt: "A state whose per-qubit subsystem entropies are all zero is classified as ___.",
				Answer: "separable",
			},
		},
	},
	"bloch-sphere": {
		QuestionMultipleChoice: {
			{
				Prompt:  "Where does |1⟩ sit on the Bloch sphere?",
				Options: []string{"North pole", "South pole", "Equator", "Center"},
				Answer:  "South pole",
			},
		},
		QuestionTrueFalse: {
			{
				Prompt: "Equal superpositions of |0⟩ and |1⟩ lie on the equator of the Bloch sphere.",
				Answer: "true",
			},
		},
		QuestionFillBlank: {
			{
				Prompt: "The X gate is a 180° rotation about the ___ axis.",
				Answer: "x",
			},
		},
	},
}

const maxQuestions = 3

// Questions returns up to three practice questions for a concept. The
// second return is false when the concept is unknown.
func Questions(conceptID string, qtype QuestionType) ([]Question, bool) {
	byType, ok := questionBank[strings.ToLower(strings.TrimSpace(conceptID))]
	if !ok {
		return nil, false
	}

	questions := make([]Question, 0, maxQuestions)
	for _, q := range byType[qtype] {
		q.Type = qtype
		questions = append(questions, q)
		if len(questions) == maxQuestions {
			break
		}
	}
	return questions, true
}

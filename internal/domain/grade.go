package domain

// ReviewGrade is the reviewer's self-assessed recall quality for the most
// recently shown card. The PascalCase values match the scheduler wire
// contract.
type ReviewGrade string

const (
	// ReviewGradeAgain means the user failed to recall the item.
	// It is the only grade that counts as incorrect for accuracy.
	ReviewGradeAgain ReviewGrade = "Again"

	// ReviewGradeHard means the user recalled the item with difficulty.
	ReviewGradeHard ReviewGrade = "Hard"

	// ReviewGradeGood means the user recalled the item with reasonable ease.
	ReviewGradeGood ReviewGrade = "Good"

	// ReviewGradeEasy means the user recalled the item effortlessly.
	ReviewGradeEasy ReviewGrade = "Easy"
)

// Valid reports whether the grade is one of the known review grades.
func (g ReviewGrade) Valid() bool {
	switch g {
	case ReviewGradeAgain, ReviewGradeHard, ReviewGradeGood, ReviewGradeEasy:
		return true
	default:
		return false
	}
}

// Correct reports whether the grade counts as a correct recall.
func (g ReviewGrade) Correct() bool {
	return g != ReviewGradeAgain
}

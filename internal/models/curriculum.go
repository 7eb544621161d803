package models

import "strings"

// Curriculum identifies the exam board a student or subject belongs to.
type Curriculum string

const (
	CurriculumGES       Curriculum = "GES"
	CurriculumCambridge Curriculum = "CAMBRIDGE"
)

// ParseCurriculum normalises user input into a known curriculum.
func ParseCurriculum(raw string) (Curriculum, bool) {
	switch Curriculum(strings.ToUpper(strings.TrimSpace(raw))) {
	case CurriculumGES:
		return CurriculumGES, true
	case CurriculumCambridge:
		return CurriculumCambridge, true
	default:
		return "", false
	}
}

// Valid reports whether the curriculum is one of the supported boards.
func (c Curriculum) Valid() bool {
	return c == CurriculumGES || c == CurriculumCambridge
}

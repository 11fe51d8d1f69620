package wizard

// Step identifies one page of the booking wizard.
type Step string

const (
	StepPersonal Step = "personal"
	StepPassport Step = "passport"
	StepTravel   Step = "travel"
	StepReview   Step = "review"
)

// Steps lists the wizard pages in order.
var Steps = []Step{StepPersonal, StepPassport, StepTravel, StepReview}

var stepTitles = map[Step]string{
	StepPersonal: "Dados Pessoais",
	StepPassport: "Passaporte e Visto",
	StepTravel:   "Data e Horario",
	StepReview:   "Revisao",
}

// ParseStep returns the Step named by value, reporting whether it is known.
func ParseStep(value string) (Step, bool) {
	for _, step := range Steps {
		if string(step) == value {
			return step, true
		}
	}
	return "", false
}

// Index is the zero-based position of s, or -1 when unknown.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

func (s Step) Title() string {
	return stepTitles[s]
}

// Next returns the following step; the last step returns itself.
func (s Step) Next() Step {
	i := s.Index()
	if i < 0 || i == len(Steps)-1 {
		return s
	}
	return Steps[i+1]
}

// Prev returns the preceding step; the first step returns itself.
func (s Step) Prev() Step {
	i := s.Index()
	if i <= 0 {
		return s
	}
	return Steps[i-1]
}

func (s Step) IsFirst() bool { return s.Index() == 0 }

func (s Step) IsLast() bool { return s.Index() == len(Steps)-1 }

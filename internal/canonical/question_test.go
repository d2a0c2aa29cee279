package canonical

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewQuestion(t *testing.T) {
	stepID := uuid.New()
	q := NewQuestion(stepID)
	if !strings.HasPrefix(q.LocalID, "local-") {
		t.Fatalf("LocalID=%q", q.LocalID)
	}
	if q.StepID != stepID || !q.IsNew || !q.Dirty {
		t.Fatalf("q=%+v", q)
	}
	if len(q.Options) != 2 {
		t.Fatalf("new questions start with two empty options, got %v", q.Options)
	}
}

func TestRemoveOptionKeepsCorrectMarkerConsistent(t *testing.T) {
	intp := func(i int) *int { return &i }
	cases := []struct {
		name    string
		correct *int
		remove  int
		want    *int
	}{
		{"removing_correct_clears_marker", intp(1), 1, nil},
		{"removing_earlier_shifts_down", intp(2), 0, intp(1)},
		{"removing_later_leaves_alone", intp(0), 2, intp(0)},
		{"no_marker_stays_unset", nil, 1, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &Question{Options: []string{"a", "b", "c"}, CorrectOption: tc.correct}
			q.RemoveOption(tc.remove)
			if len(q.Options) != 2 {
				t.Fatalf("options=%v", q.Options)
			}
			switch {
			case tc.want == nil && q.CorrectOption != nil:
				t.Fatalf("correct=%d, want cleared", *q.CorrectOption)
			case tc.want != nil && (q.CorrectOption == nil || *q.CorrectOption != *tc.want):
				t.Fatalf("correct=%v, want %d", q.CorrectOption, *tc.want)
			}
			if !q.Dirty {
				t.Fatalf("removal must mark the question dirty")
			}
		})
	}
}

func TestRemoveOptionOutOfRange(t *testing.T) {
	q := &Question{Options: []string{"a", "b"}}
	q.RemoveOption(5)
	q.RemoveOption(-1)
	if len(q.Options) != 2 || q.Dirty {
		t.Fatalf("out-of-range removal must be a no-op: %+v", q)
	}
}

func TestSetTimeLimitText(t *testing.T) {
	cases := []struct {
		text string
		want *int
	}{
		{"60", func(i int) *int { return &i }(60)},
		{"", nil},
		{"abc", nil},
		{"-5", nil},
		{"0", nil},
		{"12.5", nil},
	}
	for _, tc := range cases {
		q := &Question{}
		q.SetTimeLimitText(tc.text)
		if q.TimeLimitText != tc.text {
			t.Fatalf("raw text must be kept: %q", q.TimeLimitText)
		}
		switch {
		case tc.want == nil && q.TimeLimit != nil:
			t.Fatalf("SetTimeLimitText(%q): limit=%d, want unset", tc.text, *q.TimeLimit)
		case tc.want != nil && (q.TimeLimit == nil || *q.TimeLimit != *tc.want):
			t.Fatalf("SetTimeLimitText(%q): limit=%v", tc.text, q.TimeLimit)
		}
	}
}

func TestQuestionValidate(t *testing.T) {
	intp := func(i int) *int { return &i }
	valid := func() *Question {
		return &Question{
			Text:          "Dosis de adrenalina?",
			Options:       []string{"IV", "IM"},
			CorrectOption: intp(1),
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Question)
		want   string
	}{
		{"empty_text", func(q *Question) { q.Text = "  " }, "the question text is required"},
		{"one_option", func(q *Question) { q.Options = q.Options[:1] }, "a question needs at least two options"},
		{"blank_option", func(q *Question) { q.Options[1] = "  " }, "every option must be non-empty"},
		{"no_correct", func(q *Question) { q.CorrectOption = nil }, "select the correct option"},
		{"correct_out_of_range", func(q *Question) { q.CorrectOption = intp(7) }, "the correct option is out of range"},
		{"critical_without_rationale", func(q *Question) { q.IsCritical = true }, "a critical question needs a rationale"},
		{"nonpositive_time_limit", func(q *Question) { q.TimeLimit = intp(0) }, "the time limit must be a positive number of seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := valid()
			tc.mutate(q)
			err := q.Validate()
			if err == nil || err.Error() != tc.want {
				t.Fatalf("err=%v, want %q", err, tc.want)
			}
		})
	}
}

func TestDehydrateClearsRationaleWhenNotCritical(t *testing.T) {
	q := &Question{
		StepID:            uuid.New(),
		Text:              "x",
		Options:           []string{"a", "b"},
		CriticalRationale: "leftover from when this was critical",
	}
	row := DehydrateQuestion(q)
	if row.CriticalRationale != "" {
		t.Fatalf("rationale must be cleared on non-critical questions, got %q", row.CriticalRationale)
	}
}

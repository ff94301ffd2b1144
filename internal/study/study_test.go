package study

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reverser is a deterministic Shuffler.
type reverser struct{}

func (reverser) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

type fixture struct {
	categories []domain.Category
	cards      []domain.Card
	lang       uuid.UUID
	spanish    uuid.UUID
	verbs      uuid.UUID
	math       uuid.UUID
}

// newFixture builds languages > spanish > verbs and a separate math
// category, with one card in each plus one uncategorized card.
func newFixture() fixture {
	userID := uuid.New()
	f := fixture{lang: uuid.New(), spanish: uuid.New(), verbs: uuid.New(), math: uuid.New()}
	f.categories = []domain.Category{
		{ID: f.lang, UserID: userID, Name: "Languages"},
		{ID: f.spanish, UserID: userID, Name: "Spanish", ParentID: &f.lang},
		{ID: f.verbs, UserID: userID, Name: "Verbs", ParentID: &f.spanish},
		{ID: f.math, UserID: userID, Name: "Math"},
	}
	card := func(front string, cat *uuid.UUID) domain.Card {
		return domain.Card{ID: uuid.New(), UserID: userID, Front: front, Back: "b", CategoryID: cat}
	}
	f.cards = []domain.Card{
		card("lang", &f.lang),
		card("spanish", &f.spanish),
		card("verbs", &f.verbs),
		card("math", &f.math),
		card("loose", nil),
	}
	return f
}

func fronts(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Front
	}
	return out
}

func TestEngine_StartFilters(t *testing.T) {
	f := newFixture()
	e := NewEngine(reverser{})

	tests := []struct {
		name   string
		filter []uuid.UUID
		want   []string
	}{
		{"no filter takes everything", nil, []string{"loose", "math", "verbs", "spanish", "lang"}},
		{"parent includes descendants", []uuid.UUID{f.spanish}, []string{"verbs", "spanish"}},
		{"root includes whole subtree", []uuid.UUID{f.lang}, []string{"verbs", "spanish", "lang"}},
		{"several roots", []uuid.UUID{f.verbs, f.math}, []string{"math", "verbs"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := e.Start(f.cards, f.categories, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, fronts(s.Cards))
			assert.Equal(t, len(tc.want), s.Remaining)
			assert.Zero(t, s.CurrentIndex)
			assert.Equal(t, tc.filter, s.CategoryFilter)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestEngine_StartNoCards(t *testing.T) {
	f := newFixture()
	e := NewEngine(nil)

	_, err := e.Start(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoCards)

	_, err = e.Start(f.cards, f.categories, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestEngine_StartDoesNotMutateInput(t *testing.T) {
	f := newFixture()
	before := fronts(f.cards)

	_, err := NewEngine(rand.New(rand.NewPCG(1, 2))).Start(f.cards, f.categories, nil)
	require.NoError(t, err)

	assert.Equal(t, before, fronts(f.cards))
}

func TestRecordAnswer(t *testing.T) {
	f := newFixture()
	s, err := NewEngine(reverser{}).Start(f.cards[:3], f.categories, nil)
	require.NoError(t, err)

	require.NoError(t, RecordAnswer(s, true))
	require.NoError(t, RecordAnswer(s, false))

	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 1, s.Incorrect)
	assert.Equal(t, 1, s.Remaining)
	assert.Equal(t, 2, s.CurrentIndex)
	for _, c := range s.Cards {
		assert.Zero(t, c.CorrectCount+c.IncorrectCount, "card counters are left to the server")
	}
	assert.NoError(t, s.Validate())

	require.NoError(t, RecordAnswer(s, true))
	assert.True(t, s.Finished())
	assert.ErrorIs(t, RecordAnswer(s, true), ErrSessionFinished)
	_, err = Current(s)
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestAnswerOption(t *testing.T) {
	mc, err := domain.NewMultipleChoiceCard(uuid.New(), nil, "2+2?", []string{"3", "4", "5"}, 1)
	require.NoError(t, err)
	simple, err := domain.NewCard(mc.UserID, nil, "hola", "hello")
	require.NoError(t, err)

	s, err := NewEngine(reverser{}).Start([]domain.Card{*simple, *mc}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "2+2?", s.Cards[0].Front)

	ok, err := AnswerOption(s, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Incorrect)

	_, err = AnswerOption(s, 0)
	assert.ErrorIs(t, err, ErrNotMultipleChoice)
	assert.Equal(t, 1, s.CurrentIndex, "rejected pick does not advance")
}

func TestSummarize(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s := &domain.StudySession{
		Cards:     make([]domain.Card, 4),
		Correct:   3,
		Incorrect: 1,
		StartedAt: start,
	}

	sum := Summarize(s, start.Add(90*time.Second))

	assert.Equal(t, 4, sum.Total)
	assert.InDelta(t, 0.75, sum.Accuracy, 1e-9)
	assert.Equal(t, 90*time.Second, sum.Elapsed)

	empty := Summarize(&domain.StudySession{}, start)
	assert.Zero(t, empty.Accuracy)
	assert.Zero(t, empty.Elapsed)
}

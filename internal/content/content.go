// Package content holds the built-in training text library.
package content

import (
	"strings"

	"github.com/speedrd/rapida/internal/model"
)

// Category groups library texts by topic.
type Category string

// Library categories.
const (
	CategoryBusiness   Category = "business"
	CategoryScience    Category = "science"
	CategoryHistory    Category = "history"
	CategoryPsychology Category = "psychology"
	CategoryLiterature Category = "literature"
)

// Text is one library entry.
type Text struct {
	ID         string
	Title      string
	Category   Category
	Difficulty model.Difficulty
	Body       string
}

// Words segments the body into whitespace-separated words.
func (t Text) Words() []string {
	return strings.Fields(t.Body)
}

// WordCount returns the number of words in the body.
func (t Text) WordCount() int {
	return len(t.Words())
}

// ByID looks up a library text.
func ByID(id string) (Text, bool) {
	for _, t := range library {
		if t.ID == id {
			return t, true
		}
	}
	return Text{}, false
}

// Library returns all built-in texts.
func Library() []Text {
	out := make([]Text, len(library))
	copy(out, library)
	return out
}

// Filter returns texts matching the given category and difficulty.
// Empty values match everything.
func Filter(category Category, difficulty model.Difficulty) []Text {
	var out []Text
	for _, t := range library {
		if category != "" && t.Category != category {
			continue
		}
		if difficulty != "" && t.Difficulty != difficulty {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Default returns the passage used when no text is selected.
func Default() Text {
	return library[0]
}

var library = []Text{
	{
		ID:         "sci_rsvp",
		Title:      "Reading at the Speed of Thought",
		Category:   CategoryScience,
		Difficulty: model.DifficultyBeginner,
		Body: `The digital age has transformed how we process information. With the constant flow of articles, reports, and messages, the ability to read quickly and efficiently has become more valuable than ever. Speed reading techniques can help you absorb more information in less time while maintaining comprehension.

One of the most effective methods is rapid serial visual presentation. This technique displays words or small groups of words in quick succession at a fixed point. By eliminating the need for eye movements, it lets your brain focus entirely on processing the information.

Research shows that with practice, people can double or even triple their reading speed this way while keeping good comprehension. The key is to start at a comfortable pace and increase the speed gradually as you become more proficient. Regular practice is essential for developing the skill.`,
	},
	{
		ID:         "psy_chunks",
		Title:      "Seeing Words in Groups",
		Category:   CategoryPsychology,
		Difficulty: model.DifficultyBeginner,
		Body: `Reading in chunks is a powerful technique for improving both speed and comprehension. Instead of reading word by word, your eyes learn to capture groups of words at once. This method reduces the number of eye movements required, allowing your brain to process information more efficiently.

Skilled readers take in three to five words per fixation. Training your peripheral vision to recognize word groups expands this span naturally. Over time the habit of subvocalizing every single word fades, and whole phrases begin to register as units of meaning rather than strings of letters.

The exercises may feel uncomfortable at first. That discomfort is the point: it signals that your visual system is being pushed past its habitual pace. Stay relaxed, keep your eyes on the highlighted group, and let the rhythm of the reveal carry you forward.`,
	},
	{
		ID:         "biz_focus",
		Title:      "Attention as a Working Asset",
		Category:   CategoryBusiness,
		Difficulty: model.DifficultyIntermediate,
		Body: `Modern knowledge work is a contest for attention. Every message, meeting, and notification competes for the same limited cognitive budget, and the professionals who thrive are the ones who spend that budget deliberately. Reading fast is only half of the equation; deciding what deserves a careful read and what deserves a scan is the other half.

Trained readers triage. They preview a document for structure, extract the claims that matter, and slow down only where the argument turns. The result is not just speed but judgment: a sense for where the value in a text actually lives.

Organizations benefit too. Teams that process written material quickly hold shorter meetings, write clearer memos, and make decisions with more of the relevant context in mind. Reading skill, in other words, compounds.`,
	},
	{
		ID:         "hist_print",
		Title:      "The Press That Changed Europe",
		Category:   CategoryHistory,
		Difficulty: model.DifficultyIntermediate,
		Body: `When movable type arrived in fifteenth-century Europe, books stopped being treasures and became tools. A volume that had taken a scribe a year to copy could suddenly be produced by the hundred, and the price of the written word collapsed within a generation.

The consequences ran far beyond publishing. Literacy spread from cloisters and courts into workshops and households. Ideas travelled faster than any authority could contain them, and readers for the first time could compare accounts, notice contradictions, and form judgments of their own.

What the press really manufactured was not paper but readers. Every gain in the speed and reach of text has repeated that pattern since, from the telegraph to the screen you are reading now.`,
	},
	{
		ID:         "lit_reading",
		Title:      "On Reading Well",
		Category:   CategoryLiterature,
		Difficulty: model.DifficultyAdvanced,
		Body: `There is a kind of reading that devours and a kind that savors, and the accomplished reader commands both. The devourer clears ground: surveys, summaries, the broad middle of most prose where the author is merely transporting you between ideas. The savorer stops where the language itself does work, where a sentence earns a second pass.

Speed, in this view, is not the enemy of depth but its servant. The faster you move through the ordinary, the more time remains for the extraordinary. A reader who cannot vary pace reads everything at the same flat attention, and so reads nothing particularly well.

Practice, then, is not about racing through pages. It is about gaining a gearbox: the ability to choose, moment by moment, the speed a text deserves.`,
	},
}

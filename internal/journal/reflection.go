package journal

import "strings"

// ReflectionMode selects which structured reflection applies to an entry.
type ReflectionMode string

const (
	// ModeUnset marks legacy entries saved before modes existed.
	// Renderers treat it as ModeFree.
	ModeUnset  ReflectionMode = ""
	ModeFree   ReflectionMode = "free"
	ModeGrowth ReflectionMode = "growth"
)

// ReflectionItem is one question/answer pair rendered in an entry's
// reflection block.
type ReflectionItem struct {
	Question string
	Answer   string
}

// Reflection is the tagged variant behind an entry's structured answers.
// Exactly one concrete type applies per entry, which makes it impossible
// for a renderer to mix purpose-mode and growth-mode fields.
type Reflection interface {
	Mode() ReflectionMode

	// Title is the heading of the rendered reflection block.
	Title() string

	// Items returns the non-empty question/answer pairs in display order.
	Items() []ReflectionItem
}

// FreeReflection holds the purpose-mode answers. WhatStayed and
// PerspectiveChange are legacy anchors kept for old records; current
// prompts no longer ask them and they are not rendered.
type FreeReflection struct {
	Excited           string
	Drained           string
	Grateful          string
	WhatStayed        string
	PerspectiveChange string
}

func (r *FreeReflection) Mode() ReflectionMode { return ModeFree }

func (r *FreeReflection) Title() string { return "Purpose Reflection" }

func (r *FreeReflection) Items() []ReflectionItem {
	return nonEmptyItems([]ReflectionItem{
		{Question: "What excited you today?", Answer: r.Excited},
		{Question: "What drained your energy?", Answer: r.Drained},
		{Question: "What are you grateful for?", Answer: r.Grateful},
	})
}

// GrowthReflection holds the growth-mode answers.
type GrowthReflection struct {
	Learned         string
	Alignment       string
	ImproveTomorrow string
}

func (r *GrowthReflection) Mode() ReflectionMode { return ModeGrowth }

func (r *GrowthReflection) Title() string { return "Growth Reflection" }

func (r *GrowthReflection) Items() []ReflectionItem {
	return nonEmptyItems([]ReflectionItem{
		{Question: "What did I learn or improve upon today?", Answer: r.Learned},
		{Question: "Did my actions align with my values and goals?", Answer: r.Alignment},
		{Question: "What can I do differently tomorrow to improve?", Answer: r.ImproveTomorrow},
	})
}

// nonEmptyItems drops pairs whose answer is blank.
func nonEmptyItems(items []ReflectionItem) []ReflectionItem {
	out := make([]ReflectionItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Answer) != "" {
			out = append(out, it)
		}
	}
	return out
}

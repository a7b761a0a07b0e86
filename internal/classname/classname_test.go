package classname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	got := Join(
		"btn  btn-primary",
		"",
		nil,
		false,
		true,
		[]any{"nested", []string{"deep  deeper"}, []any{nil, 0}},
		map[string]bool{"active": true, "disabled": false, "focus ring": true},
		0,
		3,
		2.5,
	)

	assert.Equal(t, "btn btn-primary nested deep deeper active focus ring 3 2.5", got)
}

func TestJoin_Empty(t *testing.T) {
	assert.Equal(t, "", Join())
	assert.Equal(t, "", Join(nil, false, "", map[string]bool{"x": false}))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		inputs []any
		want   string
	}{
		{"padding shorthand overrides axes", []any{"px-2 py-1 bg-red-500", "p-3 bg-[#B91C1C]"}, "p-3 bg-[#B91C1C]"},
		{"axis after shorthand survives", []any{"p-3 px-5"}, "p-3 px-5"},
		{"font size and color are distinct", []any{"text-sm text-red-500 text-lg"}, "text-red-500 text-lg"},
		{"variants are scoped", []any{"hover:bg-red-500 bg-blue-500 hover:bg-green-500"}, "bg-blue-500 hover:bg-green-500"},
		{"display", []any{"block flex hidden"}, "hidden"},
		{"unknown classes deduplicate", []any{"custom foo custom"}, "foo custom"},
		{"border width and color", []any{"border-2 border-red-500 border-4"}, "border-red-500 border-4"},
		{"rounded corner overridden by side", []any{"rounded-tl-lg rounded-t-none"}, "rounded-t-none"},
		{"negative values", []any{"-m-2 m-4"}, "m-4"},
		{"conditional object wins last", []any{"p-2", map[string]bool{"p-4": true, "p-8": false}}, "p-4"},
		{"flex direction and flex", []any{"flex-row flex-col flex-1"}, "flex-col flex-1"},
		{"text alignment", []any{"text-center text-left"}, "text-left"},
		{"inset overrides sides", []any{"top-0 left-2 inset-4"}, "inset-4"},
		{"shadow and shadow color", []any{"shadow-sm shadow-lg shadow-red-500"}, "shadow-lg shadow-red-500"},
		{"falsy inputs ignored", []any{nil, false, "", "p-1", []any{nil, "p-2"}}, "p-2"},

		{"object fit and position", []any{"object-cover object-center"}, "object-cover object-center"},
		{"list style type and position", []any{"list-disc list-inside"}, "list-disc list-inside"},
		{"space and space reverse", []any{"space-x-2 space-x-reverse"}, "space-x-2 space-x-reverse"},
		{"background image and color", []any{"bg-[url('/a.png')] bg-red-500"}, "bg-[url('/a.png')] bg-red-500"},
		{"arbitrary shadow overrides shadow", []any{"shadow-lg shadow-[0_0_10px_red]"}, "shadow-[0_0_10px_red]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.inputs...))
		})
	}
}

func TestMerge_LastWins(t *testing.T) {
	assert.Equal(t, "bg-green-500", Merge("bg-red-500", "bg-blue-500", "bg-green-500"))
	assert.Equal(t, "bg-red-500", Merge("bg-green-500", "bg-blue-500", "bg-red-500"))
}

func TestMerge_Empty(t *testing.T) {
	assert.Equal(t, "", Merge())
	assert.Equal(t, "", Merge(nil, false, map[string]bool{"p-2": false}))
}

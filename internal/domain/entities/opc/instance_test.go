package opc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextScenario(t *testing.T) {
	inst := NewInstance(newStub("Text", textSchema()))

	assert.Equal(t, "", inst.Property("text"))
	assert.Equal(t, "", inst.Property("never-declared"))

	inst.SetProperty("text", "hello")
	data := inst.Serialize()
	assert.Equal(t, "hello", data.Properties["text"])
	assert.Equal(t, "Text", data.Class)
	assert.Equal(t, inst.UID(), data.UID)
}

func TestInstanceUIDsAreUnique(t *testing.T) {
	p := newStub("Text", textSchema())
	a, b := NewInstance(p), NewInstance(p)
	assert.NotEmpty(t, a.UID())
	assert.NotEqual(t, a.UID(), b.UID())
}

func TestStylesExpandBoxStyles(t *testing.T) {
	inst := NewInstance(newStub("Text", textSchema()))
	inst.SetProperty("background-color", "#fff")
	inst.SetProperty(BoxStylesProperty, map[string]any{
		"margin-top":    float64(10),
		"padding-left":  "2em",
		"border-width":  "3",
		"margin-bottom": "",
	})

	assert.Equal(t, map[string]string{
		"background-color": "#fff",
		"margin-top":       "10px",
		"padding-left":     "2em",
		"border-width":     "3px",
	}, inst.Styles())
	assert.Equal(t, "background-color:#fff; border-width:3px; margin-top:10px; padding-left:2em", inst.StyleString())
}

func TestAnimationsAndAttributes(t *testing.T) {
	inst := NewInstance(newStub("Text", textSchema()))
	inst.SetProperty(AnimationStyleProperty, "animate__bounce")
	inst.SetProperty("wow-duration", "2s")
	inst.SetProperty("wow-offset", float64(50))
	inst.SetProperty("color", "red")
	inst.AddClass("lead")
	inst.SetAttribute("id", "intro")

	assert.Equal(t, map[string]string{"wow-duration": "2s", "wow-offset": "50"}, inst.Animations())

	attrs := inst.Attributes()
	assert.Equal(t, "color:red", attrs["style"])
	assert.Equal(t, "wow animate__bounce lead", attrs["class"])
	assert.Equal(t, "2s", attrs["data-wow-duration"])
	assert.Equal(t, "50", attrs["data-wow-offset"])
	assert.Equal(t, "intro", attrs["id"])
	assert.NotContains(t, attrs, "data-wow-delay")

	assert.Equal(t,
		`class="wow animate__bounce lead" data-wow-duration="2s" data-wow-offset="50" id="intro" style="color:red"`,
		inst.AttributeString())
}

func TestFormatAttributesEscapesAndDropsBadNames(t *testing.T) {
	got := FormatAttributes(map[string]string{
		"title":        `"quoted" <b>`,
		`bad name="x"`: "1",
	})
	assert.Equal(t, `title="&#34;quoted&#34; &lt;b&gt;"`, got)
}

func TestPropertyAccessors(t *testing.T) {
	inst := NewInstance(newStub("Text", textSchema()))
	inst.SetProperty("n", float64(4))
	inst.SetProperty("s", "12")
	inst.SetProperty("flag", "true")
	inst.SetProperty("on", true)

	assert.Equal(t, 4, inst.PropertyInt("n", 0))
	assert.Equal(t, 12, inst.PropertyInt("s", 0))
	assert.Equal(t, 7, inst.PropertyInt("missing", 7))
	assert.True(t, inst.PropertyBool("flag"))
	assert.True(t, inst.PropertyBool("on"))
	assert.False(t, inst.PropertyBool("missing"))
	assert.Equal(t, "4", inst.PropertyString("n"))
}

func TestFindAndWalk(t *testing.T) {
	p := newStub("Text", textSchema())
	root := NewInstance(p)
	child := NewInstance(p)
	grandchild := NewInstance(p)
	child.Subareas().Ensure("inner").Add(grandchild)
	root.Subareas().Ensure("main").Add(child)

	require.Same(t, grandchild, root.Find(grandchild.UID()))
	assert.Nil(t, root.Find("nope"))

	count := 0
	root.Walk(func(*Instance) bool { count++; return true })
	assert.Equal(t, 3, count)
}

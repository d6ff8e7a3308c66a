package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/aretw0/formflow/pkg/domain"
)

func TestNew_MatchesLanguage(t *testing.T) {
	ja, err := New("ja-JP")
	require.NoError(t, err)
	assert.Equal(t, language.Japanese, ja.Language())

	en, err := New("en-GB")
	require.NoError(t, err)
	assert.Equal(t, language.English, en.Language())

	_, err = New("not a tag")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestTranslator_English(t *testing.T) {
	tr := Default()
	for _, r := range domain.AllRoutes {
		assert.Equal(t, r.Title(), tr.RouteTitle(r), r.String())
		assert.Equal(t, r.ButtonTitle(), tr.ButtonTitle(r), r.String())
	}
	assert.Equal(t, "An error occurred", tr.Message(MsgErrorDefault))
}

func TestTranslator_Japanese(t *testing.T) {
	tr, err := New("ja")
	require.NoError(t, err)

	assert.Equal(t, "フォームA", tr.RouteTitle(domain.RouteFormA))
	assert.Equal(t, "結果へ", tr.ButtonTitle(domain.RouteResult))
	assert.Equal(t, "入力されたパスワードが無効です。\n別のパスワードを入力してください。", tr.Message(MsgFatalForm))
	assert.Equal(t, "ルートC", tr.FlowTitle(domain.Flow{ID: "routeC", Title: "Route C"}))

	got := tr.Outcome(domain.Invalid{Code: "length", Message: "Enter between 6 and 16 characters"})
	assert.Equal(t, domain.Invalid{Code: "length", Message: "6〜16文字で入力してください"}, got)
}

func TestTranslator_Fallbacks(t *testing.T) {
	tr := Default()

	assert.Equal(t, "custom", tr.Text("does_not_exist", "custom"))
	assert.Equal(t, "Mine", tr.FlowTitle(domain.Flow{ID: "mine", Title: "Mine"}))

	// Unknown codes keep the validator's own message.
	inv := domain.Invalid{Code: "other", Message: "kept"}
	assert.Equal(t, inv, tr.Outcome(inv))

	// Non-invalid outcomes pass through.
	assert.Equal(t, domain.Fatal{Code: "x"}, tr.Outcome(domain.Fatal{Code: "x"}))
	assert.Equal(t, domain.Valid{}, tr.Outcome(domain.Valid{}))
}

func TestSupported(t *testing.T) {
	tags := Supported()
	tags[0] = language.French
	assert.Equal(t, language.English, Supported()[0])
}

package intent

import (
	"regexp"
	"strings"

	"github.com/easeaico/her-line/internal/types"
)

// rawRule is an uncompiled rule: keyword fragments are regexp syntax and are
// matched against lowercased, width-folded text.
type rawRule struct {
	intent   types.Intent
	keywords []string
}

// defaultTable is evaluated top to bottom. Order matters: thanks is checked
// before greet so "thanks, hello" stays thanks, and study before future so
// "明日テスト" is about studying.
var defaultTable = []rawRule{
	{types.IntentThanks, []string{`ありがと`, `有難`, `感謝`, `サンキュ`, `thank`, `\bthx\b`}},
	{types.IntentAngry, []string{`むかつ`, `ムカつ`, `ムカムカ`, `怒`, `ぷんぷん`, `イライラ`, `いらいら`, `腹立`, `\bangry\b`, `\bmad\b`, `annoy`}},
	{types.IntentLove, []string{`大好き`, `好き`, `すき`, `愛してる`, `あいしてる`, `\blove\b`}},
	{types.IntentBye, []string{`おやすみ`, `ばいばい`, `バイバイ`, `またね`, `さようなら`, `さよなら`, `じゃあね`, `\bbye\b`, `good ?night`, `see you`}},
	{types.IntentGreet, []string{`おはよう`, `こんにちは`, `こんばんは`, `こんちゃ`, `やっほ`, `\bhi\b`, `hello`, `\bhey\b`, `good morning`}},
	{types.IntentHelp, []string{`助けて`, `たすけて`, `手伝って`, `てつだって`, `困った`, `こまった`, `どうしよう`, `\bhelp\b`}},
	{types.IntentCare, []string{`疲れ`, `つかれ`, `しんどい`, `眠い`, `ねむい`, `だるい`, `風邪`, `痛い`, `つらい`, `\btired\b`, `\bsick\b`}},
	{types.IntentStudy, []string{`勉強`, `べんきょう`, `宿題`, `テスト`, `試験`, `受験`, `\bstudy`, `homework`, `\bexams?\b`}},
	{types.IntentFuture, []string{`将来`, `未来`, `夢`, `明日`, `あした`, `来週`, `来年`, `future`, `\bdreams?\b`, `tomorrow`}},
	{types.IntentSmalltalkWeather, []string{`天気`, `雨`, `晴れ`, `暑い`, `あつい`, `寒い`, `さむい`, `雪`, `台風`, `weather`, `\brain`, `sunny`, `\bsnow`}},
	{types.IntentJoke, []string{`冗談`, `ギャグ`, `笑わせて`, `面白い話`, `おもしろい話`, `ダジャレ`, `だじゃれ`, `\bjokes?\b`, `funny`}},
	{types.IntentCheer, []string{`頑張`, `がんば`, `ガンバ`, `応援`, `元気出`, `ファイト`, `\bcheer`, `you can do it`}},
}

// DefaultRules returns the built-in ordered rule list.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(defaultTable))
	for _, raw := range defaultTable {
		rules = append(rules, compileRule(raw.intent, raw.keywords))
	}
	return rules
}

func compileRule(intent types.Intent, keywords []string) Rule {
	return Rule{
		Intent:  intent,
		Pattern: regexp.MustCompile("(?:" + strings.Join(keywords, "|") + ")"),
	}
}

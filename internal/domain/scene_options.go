package domain

// ObjectKind は、シーン上のオブジェクトの種類を表す定数です
type ObjectKind string

const (
	ObjectText      ObjectKind = "text"
	ObjectRectangle ObjectKind = "rectangle"
	ObjectCircle    ObjectKind = "circle"
	ObjectTriangle  ObjectKind = "triangle"
)

// optionData は、Discordの選択肢などに表示する値と表示名を保持します
type optionData struct {
	Value       string
	DisplayName string
}

// objectKinds は各ObjectKindのデータを定義します
var objectKinds = map[ObjectKind]optionData{
	ObjectText:      {"text", "テキスト"},
	ObjectRectangle: {"rectangle", "四角形"},
	ObjectCircle:    {"circle", "円"},
	ObjectTriangle:  {"triangle", "三角形"},
}

// fontFamilies は、エディターで選択できるフォントです
var fontFamilies = []optionData{
	{"Arial", "Arial"},
	{"Helvetica", "Helvetica"},
	{"Times New Roman", "Times New Roman"},
	{"Georgia", "Georgia"},
	{"Verdana", "Verdana"},
}

// editorColors は、エディターのカラーパレットです
var editorColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9", "#F8C471", "#82E0AA",
	"#F1948A", "#85C1E9", "#D7BDE2",
}

// String はObjectKindの英語名を返します
func (k ObjectKind) String() string {
	if data, ok := objectKinds[k]; ok {
		return data.Value
	}
	return string(k)
}

// DisplayName はObjectKindの日本語名を返します
func (k ObjectKind) DisplayName() string {
	if data, ok := objectKinds[k]; ok {
		return data.DisplayName
	}
	return "不明"
}

// IsShape は、ObjectKindが図形かどうかを返します
func (k ObjectKind) IsShape() bool {
	switch k {
	case ObjectRectangle, ObjectCircle, ObjectTriangle:
		return true
	}
	return false
}

// AllShapeKinds はすべての図形のObjectKindを返します
func AllShapeKinds() []ObjectKind {
	return []ObjectKind{
		ObjectRectangle,
		ObjectCircle,
		ObjectTriangle,
	}
}

// AllFontFamilies はエディターで選択できるすべてのフォントを返します
func AllFontFamilies() []string {
	families := make([]string, 0, len(fontFamilies))
	for _, family := range fontFamilies {
		families = append(families, family.Value)
	}
	return families
}

// EditorColors はエディターのカラーパレットを返します
func EditorColors() []string {
	return append([]string(nil), editorColors...)
}

func isFontFamily(family string) bool {
	for _, f := range fontFamilies {
		if f.Value == family {
			return true
		}
	}
	return false
}

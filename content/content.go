package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/legalnotice/layout"
)

// Sentinel errors for content lookups.
var (
	ErrUnsupportedLocale  = errors.New("content: 不支持的语言")
	ErrDictionaryNotFound = errors.New("content: 找不到语言字典")
)

//go:embed locales/*.yaml
var embedded embed.FS

// DefaultLocales 是内置字典覆盖的语言，第一个为默认语言。
var DefaultLocales = []string{"en", "fr", "de", "lb"}

// 字典中有特殊含义的顶层键，其余键按章节约定解析。
const (
	KeyTitle            = "title"
	KeyFooter           = "footer"
	KeyMetaDate         = "metaDate"
	KeyMetaDateLabel    = "metaDateLabel"
	KeyMetaCompany      = "metaCompany"
	KeyMetaCompanyLabel = "metaCompanyLabel"
	KeyMetaDomain       = "metaDomain"
	KeyMetaDomainLabel  = "metaDomainLabel"
	KeyContactEmail     = "contactEmail"
	KeyContactLabel     = "contactLabel"
)

var reservedKeys = map[string]bool{
	KeyTitle: true, KeyFooter: true,
	KeyMetaDate: true, KeyMetaDateLabel: true,
	KeyMetaCompany: true, KeyMetaCompanyLabel: true,
	KeyMetaDomain: true, KeyMetaDomainLabel: true,
	KeyContactEmail: true, KeyContactLabel: true,
}

// Dictionary 是某一语言的扁平内容字典。
type Dictionary map[string]string

// Catalog 保存一组语言字典，并把请求的语言匹配到其中之一。
type Catalog struct {
	locales       []string
	defaultLocale string
	matcher       language.Matcher
	dicts         map[string]Dictionary
}

// Embedded 返回随二进制发布的全部字典。
func Embedded() (*Catalog, error) {
	return EmbeddedWith(DefaultLocales, DefaultLocales[0])
}

// EmbeddedWith 从随二进制发布的字典中只加载 locales，并以 defaultLocale 作为回退语言。
func EmbeddedWith(locales []string, defaultLocale string) (*Catalog, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub, locales, defaultLocale)
}

// LoadDir 从目录读取 <locale>.yaml 字典。
func LoadDir(dir string, locales []string, defaultLocale string) (*Catalog, error) {
	return Load(os.DirFS(dir), locales, defaultLocale)
}

// Load 从 fsys 读取每个语言的 <locale>.yaml。defaultLocale 必须属于 locales。
func Load(fsys fs.FS, locales []string, defaultLocale string) (*Catalog, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("至少需要一个语言")
	}
	if defaultLocale == "" {
		defaultLocale = locales[0]
	}
	c := &Catalog{dicts: make(map[string]Dictionary, len(locales))}

	// 默认语言放在首位，language.Matcher 在无法匹配时回退到第一个标签
	ordered := []string{defaultLocale}
	for _, loc := range locales {
		if loc != defaultLocale {
			ordered = append(ordered, loc)
		}
	}
	tags := make([]language.Tag, 0, len(ordered))
	for _, loc := range ordered {
		tag, err := language.Parse(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocale, loc)
		}
		dict, err := readDictionary(fsys, loc)
		if err != nil {
			return nil, err
		}
		c.dicts[loc] = dict
		tags = append(tags, tag)
	}
	if _, ok := c.dicts[defaultLocale]; !ok {
		return nil, fmt.Errorf("%w: 默认语言 %s", ErrDictionaryNotFound, defaultLocale)
	}
	c.locales = ordered
	c.defaultLocale = defaultLocale
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

func readDictionary(fsys fs.FS, locale string) (Dictionary, error) {
	name := path.Clean(locale + ".yaml")
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, name)
		}
		return nil, fmt.Errorf("读取字典 %s 失败: %w", name, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析字典 %s 失败: %w", name, err)
	}
	dict := make(Dictionary, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			dict[k] = ""
		case string:
			dict[k] = val
		case map[string]any, []any:
			return nil, fmt.Errorf("字典 %s 的键 %s 必须是字符串", name, k)
		default:
			dict[k] = fmt.Sprint(val)
		}
	}
	return dict, nil
}

// Locales 返回可用语言，默认语言在首位。
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.locales))
	copy(out, c.locales)
	return out
}

// Default 返回默认语言。
func (c *Catalog) Default() string { return c.defaultLocale }

// Resolve 将请求的语言（如 "fr-LU"、"de-CH"）匹配到可用语言。
// 空字符串与无法匹配的语言回退到默认语言；无法解析的标签返回 ErrUnsupportedLocale。
func (c *Catalog) Resolve(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return c.defaultLocale, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLocale, lang)
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return c.defaultLocale, nil
	}
	return c.locales[idx], nil
}

// Dictionary 返回某一语言的字典副本，值已完成 ${key} 替换与 NFC 规范化。
func (c *Catalog) Dictionary(locale string) (Dictionary, error) {
	raw, ok := c.dicts[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, locale)
	}
	out := make(Dictionary, len(raw))
	for k, v := range raw {
		out[k] = norm.NFC.String(Interpolate(v, raw))
	}
	return out, nil
}

// Input 按请求的语言构造排版输入。
func (c *Catalog) Input(lang string) (layout.Input, error) {
	locale, err := c.Resolve(lang)
	if err != nil {
		return layout.Input{}, err
	}
	dict, err := c.Dictionary(locale)
	if err != nil {
		return layout.Input{}, err
	}
	return BuildInput(locale, dict), nil
}

// BuildInput 把字典中的保留键映射为标题、元信息行、联系方式与页脚，其余键作为章节条目。
func BuildInput(locale string, dict Dictionary) layout.Input {
	in := layout.Input{
		Lang:   locale,
		Title:  dict[KeyTitle],
		Footer: dict[KeyFooter],
		Meta: []layout.MetaField{
			{Label: dict[KeyMetaDateLabel], Value: dict[KeyMetaDate]},
			{Label: dict[KeyMetaCompanyLabel], Value: dict[KeyMetaCompany]},
			{Label: dict[KeyMetaDomainLabel], Value: dict[KeyMetaDomain], Link: true},
		},
		Entries: make(map[string]string, len(dict)),
	}
	if email := strings.TrimSpace(dict[KeyContactEmail]); email != "" {
		in.Contact = []layout.MetaField{{Label: dict[KeyContactLabel], Value: email, Link: true}}
	}
	for k, v := range dict {
		if !reservedKeys[k] {
			in.Entries[k] = v
		}
	}
	return in
}

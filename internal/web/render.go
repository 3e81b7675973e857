package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"path"
	"time"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile  = "templates/base.html"
	layoutName  = "base"
	ErrorPage   = "error.html"
	dateTimeFmt = "2006-01-02 15:04"
)

// Renderer 每个页面与 base 布局单独解析，页面之间的 content 块互不覆盖
type Renderer struct {
	pages map[string]*template.Template
}

// Funcs 模板函数。mediaURL 把存储路径转换为访问地址。
func Funcs(mediaURL func(string) string) template.FuncMap {
	return template.FuncMap{
		"mediaURL": mediaURL,
		"formatTime": func(t time.Time) string {
			return t.Local().Format(dateTimeFmt)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

func NewRenderer(funcs template.FuncMap) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("解析模板 %s 失败: %w", name, err)
		}
		pages[name] = tmpl
	}
	if _, ok := pages[ErrorPage]; !ok {
		return nil, fmt.Errorf("缺少模板 %s", ErrorPage)
	}
	return &Renderer{pages: pages}, nil
}

// Instance 实现 gin 的 render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		log.Printf("⚠️ 模板 %s 不存在", name)
		tmpl = r.pages[ErrorPage]
	}
	return render.HTML{Template: tmpl, Name: layoutName, Data: data}
}

// Pages 返回已加载的页面名
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}

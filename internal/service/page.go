package service

import (
	"strconv"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/model"
)

// Page 一页帖子。Number 从 1 开始，不超过 NumPages。
type Page struct {
	Items       []model.PhotoPost `json:"items"`
	Total       int64             `json:"total"`
	Number      int               `json:"page"`
	PageSize    int               `json:"page_size"`
	NumPages    int               `json:"num_pages"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
}

func (p Page) NextNumber() int {
	return p.Number + 1
}

func (p Page) PreviousNumber() int {
	return p.Number - 1
}

// LastPage 表示 ?page=last，由列表查询解析为实际末页
const LastPage = -1

// ParsePageNumber 解析 ?page= 参数。缺省为第 1 页，"last" 返回 LastPage，
// 非整数或小于 1 返回 NotFound。
func ParsePageNumber(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	if raw == "last" {
		return LastPage, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, common.NewNotFoundError("页码无效")
	}
	return n, nil
}

func pageCount(total int64) int {
	size := int64(consts.PageSize)
	n := int((total + size - 1) / size)
	// 没有帖子时也保留第 1 页
	if n < 1 {
		n = 1
	}
	return n
}

func newPage(items []model.PhotoPost, total int64, number int) Page {
	size := consts.PageSize
	numPages := pageCount(total)
	if items == nil {
		items = []model.PhotoPost{}
	}
	return Page{
		Items:       items,
		Total:       total,
		Number:      number,
		PageSize:    size,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

func pageOffset(number int) int {
	if number < 1 {
		number = 1
	}
	return (number - 1) * consts.PageSize
}

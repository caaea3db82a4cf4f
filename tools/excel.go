package tools

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type excelColumn struct {
	index  []int
	header string
}

// excelColumns 按 excel 标签收集列，匿名嵌入的结构体会被展开，"-" 表示跳过
func excelColumns(t reflect.Type, parent []int) []excelColumn {
	var cols []excelColumn
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		idx := append(append([]int(nil), parent...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			cols = append(cols, excelColumns(sf.Type, idx)...)
			continue
		}
		header := sf.Tag.Get("excel")
		if header == "-" {
			continue
		}
		if header == "" {
			header = sf.Name
		}
		cols = append(cols, excelColumn{index: idx, header: header})
	}
	return cols
}

// WriteSheet 将结构体切片写入 sheet，第一行为表头
func WriteSheet(f *excelize.File, sheet string, rows any) error {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("rows %T 不是切片", rows)
	}
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("rows %T 不是结构体切片", rows)
	}
	if sheet == "" {
		sheet = "Sheet1"
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	cols := excelColumns(elemType, nil)
	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col.header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	line := 2
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		values := make([]any, len(cols))
		for j, col := range cols {
			fv := elem.FieldByIndex(col.index)
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					values[j] = ""
					continue
				}
				fv = fv.Elem()
			}
			values[j] = fv.Interface()
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		line++
	}
	return nil
}

// SendExcel 生成单 sheet 的 xlsx 并作为附件返回
func SendExcel(c *gin.Context, filename, sheet string, rows any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := WriteSheet(f, sheet, rows); err != nil {
		return err
	}
	if sheet != "" && sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
		if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
			f.SetActiveSheet(idx)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return err
	}
	escaped := url.QueryEscape(filename)
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped))
	c.Data(http.StatusOK, ExcelContentType, buf.Bytes())
	return nil
}

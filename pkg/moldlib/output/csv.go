package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

var mappingCSVHeader = []string{
	"产品ID", "设备名称", "原图片ID", "单元格引用",
	"原文件路径", "保存文件路径", "关系ID", "映射类型", "校验状态",
}

// WriteMappingCSV writes the mapping entries as a flat CSV for manual
// review alongside the JSON document.
func WriteMappingCSV(path string, entries []models.MappingEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(mappingCSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.PDID,
			e.DeviceName,
			e.ImageID,
			e.CellRef,
			e.MediaPart,
			e.MaterializedPath,
			e.RelID,
			string(e.Mapping),
			string(e.Status),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var labelCSVHeader = []string{
	"幻灯片", "PDID", "文本", "形状名称", "所属组", "匹配模式",
}

// WriteLabelCSV writes extracted labels as a flat CSV.
func WriteLabelCSV(path string, report *models.LabelReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(labelCSVHeader); err != nil {
		return err
	}
	for _, label := range report.AllLabels() {
		record := []string{
			strconv.Itoa(label.SlideIndex + 1),
			strconv.Itoa(label.PDID),
			label.Text,
			label.ShapeName,
			label.ParentGroup,
			label.Pattern,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

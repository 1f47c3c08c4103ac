package model

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/linscore/pkg/errors"
)

// Format はモデルファイルのエンコーディング
type Format int

const (
	// FormatJSON は encoding/json
	FormatJSON Format = iota
	// FormatYAML は gopkg.in/yaml.v3
	FormatYAML
	// FormatGob は encoding/gob
	FormatGob
)

// FormatFromPath はファイル拡張子からフォーマットを判定する
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".gob":
		return FormatGob, nil
	default:
		return 0, errors.NewValidationError("path", "unsupported model file extension", path)
	}
}

// SaveWeights はモデルの重みをファイルに保存する
//
// 使用例:
//
//	mw, _ := clf.ExportWeights()
//	err := model.SaveWeights(mw, "model.yaml")
func SaveWeights(mw *ModelWeights, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return WriteWeights(file, mw, format)
}

// LoadWeights はファイルからモデルの重みを読み込み、検証する
func LoadWeights(path string) (*ModelWeights, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return ReadWeights(file, format)
}

// WriteWeights はモデルの重みをio.Writerに書き出す
func WriteWeights(w io.Writer, mw *ModelWeights, format Format) error {
	if err := mw.Validate(); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = mw.ToJSON()
	case FormatYAML:
		data, err = mw.ToYAML()
	case FormatGob:
		if err := gob.NewEncoder(w).Encode(mw); err != nil {
			return errors.Wrap(err, "failed to encode model")
		}
		return nil
	default:
		return errors.NewValidationError("format", "unknown format", format)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "failed to write model")
}

// ReadWeights はio.Readerからモデルの重みを読み込み、検証する
func ReadWeights(r io.Reader, format Format) (*ModelWeights, error) {
	mw := &ModelWeights{}
	switch format {
	case FormatGob:
		if err := gob.NewDecoder(r).Decode(mw); err != nil {
			return nil, errors.Wrap(err, "failed to decode model")
		}
	case FormatJSON, FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read model")
		}
		if format == FormatJSON {
			err = mw.FromJSON(data)
		} else {
			err = mw.FromYAML(data)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewValidationError("format", "unknown format", format)
	}
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	return mw, nil
}

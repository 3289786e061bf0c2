package pdf

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/bull/contract-rag/internal/metadata"
)

// InfoReader implements metadata.InfoParser on the PDF trailer info
// dictionary. Missing info entries are left empty; only a structurally
// unreadable file is an error.
type InfoReader struct{}

// ParseInfo reads page count and the best-effort author fields.
func (InfoReader) ParseInfo(path string) (info metadata.Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return metadata.Info{}, err
	}
	defer f.Close()

	info.TotalPages = reader.NumPage()

	dict := reader.Trailer().Key("Info")
	if dict.Kind() == pdf.Dict {
		info.Author = infoString(dict, "Author")
		info.Creator = infoString(dict, "Creator")
		info.CreationDate = infoString(dict, "CreationDate")
	}
	return info, nil
}

func infoString(dict pdf.Value, key string) string {
	v := dict.Key(key)
	if v.Kind() != pdf.String {
		return ""
	}
	return v.Text()
}

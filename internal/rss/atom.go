package rss

import (
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
)

// atomTranslator keeps the typed <link> elements of Atom entries, which the
// universal gofeed.Item reduces to bare URLs. They are stored as
// Extensions["atom"]["link"] with href, rel and type attributes.
type atomTranslator struct {
	*gofeed.DefaultAtomTranslator
}

func (t *atomTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	af, ok := feed.(*atom.Feed)
	if !ok {
		return nil, fmt.Errorf("feed did not match expected type of *atom.Feed")
	}

	result, err := t.DefaultAtomTranslator.Translate(af)
	if err != nil {
		return nil, err
	}

	for i, entry := range af.Entries {
		if i >= len(result.Items) || entry == nil {
			break
		}
		links := typedLinks(entry.Links)
		if len(links) == 0 {
			continue
		}
		item := result.Items[i]
		if item.Extensions == nil {
			item.Extensions = ext.Extensions{}
		}
		if item.Extensions["atom"] == nil {
			item.Extensions["atom"] = map[string][]ext.Extension{}
		}
		item.Extensions["atom"]["link"] = append(item.Extensions["atom"]["link"], links...)
	}
	return result, nil
}

func typedLinks(links []*atom.Link) []ext.Extension {
	var out []ext.Extension
	for _, l := range links {
		if l == nil || l.Type == "" {
			continue
		}
		out = append(out, ext.Extension{
			Name: "link",
			Attrs: map[string]string{
				"href": l.Href,
				"rel":  l.Rel,
				"type": l.Type,
			},
		})
	}
	return out
}

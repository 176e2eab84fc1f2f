package arxiv

import (
	"reflect"
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <published>2021-01-01T00:00:00Z</published>
    <title>Attention
      Is All You Need</title>
    <summary>  We propose the
      Transformer.  </summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format</id>
    <title>Error</title>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2202.00002v3</id>
  </entry>
</feed>`

func TestParseFeed(t *testing.T) {
	t.Parallel()

	records, err := ParseFeed(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("ParseFeed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Paper.ID != "2101.00001v1" {
		t.Fatalf("id = %q", first.Paper.ID)
	}
	if first.Paper.Title != "Attention Is All You Need" {
		t.Fatalf("title = %q", first.Paper.Title)
	}
	if first.Paper.Abstract != "We propose the Transformer." {
		t.Fatalf("abstract = %q", first.Paper.Abstract)
	}
	if want := []string{"Ashish Vaswani", "Noam Shazeer"}; !reflect.DeepEqual(first.Paper.Authors, want) {
		t.Fatalf("authors = %#v, want %#v", first.Paper.Authors, want)
	}
	if first.Paper.Published != "2021-01-01T00:00:00Z" {
		t.Fatalf("published = %q", first.Paper.Published)
	}
	if len(first.Missing) != 0 || !first.Valid() {
		t.Fatalf("expected complete valid record, got %+v", first)
	}
	if first.Paper.InLibrary() {
		t.Fatal("search results must not carry a status")
	}

	bad := records[1]
	if bad.Valid() || !bad.Lacks(FieldID) {
		t.Fatalf("expected record without /abs/ marker to be invalid, got %+v", bad)
	}

	sparse := records[2]
	if !sparse.Valid() {
		t.Fatal("sparse record should still carry an id")
	}
	for _, f := range []Field{FieldTitle, FieldAuthors, FieldAbstract, FieldPublished} {
		if !sparse.Lacks(f) {
			t.Errorf("expected %s to be reported missing", f)
		}
	}
	if sparse.Paper.Title != "" || sparse.Paper.Abstract != "" || len(sparse.Paper.Authors) != 0 {
		t.Fatalf("missing fields should default to empty, got %+v", sparse.Paper)
	}

	papers := Papers(records)
	if len(papers) != 2 {
		t.Fatalf("Papers should drop invalid records, got %d", len(papers))
	}
}

func TestParseFeedRejectsMalformedXML(t *testing.T) {
	t.Parallel()
	if _, err := ParseFeed(strings.NewReader("<feed><entry>")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestIDFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"http://arxiv.org/abs/2101.00001v1", "2101.00001v1"},
		{"http://arxiv.org/abs/hep-th/9901001v1", "hep-th/9901001v1"},
		{"  http://arxiv.org/abs/1234.5678  ", "1234.5678"},
		{"http://arxiv.org/pdf/2101.00001v1", ""},
		{"http://arxiv.org/abs/1234.5678/abs/extra", "1234.5678"},
		{"http://arxiv.org/abs/hep-th/9901001v1/abs/", "hep-th/9901001v1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := IDFromURL(tt.in); got != tt.want {
			t.Errorf("IDFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package statements

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/tidwall/gjson"

	"github.com/pdiddy/biorel-index/internal/table"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// Format is a statement batch encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatGob   Format = "gob"
)

// FormatFor picks the batch format from a file name, ignoring a trailing .gz.
func FormatFor(path string) (Format, error) {
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".gob":
		return FormatGob, nil
	}
	return "", fmt.Errorf("unsupported statement file %s: want .json, .jsonl, .ndjson or .gob", path)
}

// Load reads a statement batch, choosing the decoder by extension.
func Load(path string) ([]types.Statement, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	rc, err := table.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var stmts []types.Statement
	switch format {
	case FormatJSON:
		stmts, err = DecodeJSON(rc)
	case FormatJSONL:
		stmts, err = DecodeJSONL(rc)
	case FormatGob:
		stmts, err = decodeGob(rc)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return stmts, nil
}

// SaveGob writes stmts as a native batch. A .gz name is compressed.
func SaveGob(path string, stmts []types.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var zw *pgzip.Writer
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zw = pgzip.NewWriter(f)
		w = zw
	}
	if err := gob.NewEncoder(w).Encode(toGob(stmts)); err != nil {
		return fmt.Errorf("encoding statements: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("closing gzip stream: %w", err)
		}
	}
	return f.Close()
}

// gob cannot encode nil slice elements, so agents travel with an explicit
// presence flag.
type gobAgent struct {
	Present bool
	Name    string
	DBRefs  map[string]string
}

type gobStatement struct {
	Type     string
	Agents   []gobAgent
	Evidence []types.Evidence
}

func toGob(stmts []types.Statement) []gobStatement {
	out := make([]gobStatement, len(stmts))
	for i, st := range stmts {
		g := gobStatement{Type: st.Type, Evidence: st.Evidence, Agents: make([]gobAgent, len(st.Agents))}
		for j, a := range st.Agents {
			if a != nil {
				g.Agents[j] = gobAgent{Present: true, Name: a.Name, DBRefs: a.DBRefs}
			}
		}
		out[i] = g
	}
	return out
}

func decodeGob(r io.Reader) ([]types.Statement, error) {
	var in []gobStatement
	if err := gob.NewDecoder(r).Decode(&in); err != nil {
		return nil, err
	}
	out := make([]types.Statement, len(in))
	for i, g := range in {
		st := types.Statement{Type: g.Type, Evidence: g.Evidence, Agents: make([]*types.Agent, len(g.Agents))}
		for j, a := range g.Agents {
			if a.Present {
				st.Agents[j] = &types.Agent{Name: a.Name, DBRefs: a.DBRefs}
			}
		}
		out[i] = st
	}
	return out, nil
}

// DecodeJSON reads a JSON array of statements.
func DecodeJSON(r io.Reader) ([]types.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("statement batch is not a JSON array")
	}
	var stmts []types.Statement
	var decodeErr error
	root.ForEach(func(_, v gjson.Result) bool {
		st, err := decodeStatement(v)
		if err != nil {
			decodeErr = fmt.Errorf("statement %d: %w", len(stmts), err)
			return false
		}
		stmts = append(stmts, st)
		return true
	})
	return stmts, decodeErr
}

// DecodeJSONL reads one JSON statement per line. Blank lines are skipped.
func DecodeJSONL(r io.Reader) ([]types.Statement, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var stmts []types.Statement
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("line %d: invalid JSON", line)
		}
		st, err := decodeStatement(gjson.Parse(text))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		stmts = append(stmts, st)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return stmts, nil
}

// rolePairs lists the agent slots of two-agent statements in agent order.
var rolePairs = [][2]string{
	{"enz", "sub"},
	{"subj", "obj"},
}

// decodeStatement reads one statement object. Agents come from an explicit
// "agents" array, a "members" list (complexes), a role pair (enz/sub,
// subj/obj) or a single "agent". In a role pair whose second slot is
// present, a missing first slot is a nil agent.
func decodeStatement(v gjson.Result) (types.Statement, error) {
	st := types.Statement{Type: v.Get("type").String()}
	if st.Type == "" {
		return st, fmt.Errorf("statement has no type")
	}

	switch {
	case v.Get("agents").IsArray():
		for _, a := range v.Get("agents").Array() {
			st.Agents = append(st.Agents, decodeAgent(a))
		}
	case v.Get("members").IsArray():
		for _, a := range v.Get("members").Array() {
			st.Agents = append(st.Agents, decodeAgent(a))
		}
	default:
		for _, pair := range rolePairs {
			first, second := v.Get(pair[0]), v.Get(pair[1])
			if !first.Exists() && !second.Exists() {
				continue
			}
			st.Agents = append(st.Agents, decodeAgent(first))
			if second.Exists() {
				st.Agents = append(st.Agents, decodeAgent(second))
			}
			break
		}
		if st.Agents == nil {
			if a := v.Get("agent"); a.Exists() {
				st.Agents = []*types.Agent{decodeAgent(a)}
			}
		}
	}

	for _, ev := range v.Get("evidence").Array() {
		st.Evidence = append(st.Evidence, types.Evidence{
			PMID:      ev.Get("pmid").String(),
			Text:      ev.Get("text").String(),
			SourceAPI: ev.Get("source_api").String(),
		})
	}
	return st, nil
}

func decodeAgent(v gjson.Result) *types.Agent {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	a := &types.Agent{Name: v.Get("name").String()}
	if refs := v.Get("db_refs"); refs.IsObject() {
		a.DBRefs = make(map[string]string)
		refs.ForEach(func(k, val gjson.Result) bool {
			a.DBRefs[k.String()] = val.String()
			return true
		})
	}
	return a
}

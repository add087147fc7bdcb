// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MappingConfig holds settings for the entity mapping store.
type MappingConfig struct {
	// DBPath is the SQLite file holding persisted mappings.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// InputDir contains genes.tsv, chemicals.tsv and diseases.tsv (optionally .gz).
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`
}

// RelationConfig holds settings for one relation-table run.
type RelationConfig struct {
	// Kind selects the parser: chem-gene, gene-disease, or chem-disease.
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Table is the relation table path (.tsv, .csv, optionally .gz).
	Table string `json:"table" yaml:"table" mapstructure:"table"`

	// OverlapFile lists in-scope publication identifiers, one per line.
	// Empty disables overlap gating.
	OverlapFile string `json:"overlap_file" yaml:"overlap_file" mapstructure:"overlap_file"`

	// GeneDiseaseTable enables disease cross-linking for chem-gene rows.
	GeneDiseaseTable string `json:"gene_disease_table" yaml:"gene_disease_table" mapstructure:"gene_disease_table"`
}

// StatementsConfig holds settings for PPI statement extraction.
type StatementsConfig struct {
	// Path is the statement batch (.json, .jsonl, .ndjson, or .gob).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Recognizer selects the entity recognizer: "prose" or "none".
	Recognizer string `json:"recognizer" yaml:"recognizer" mapstructure:"recognizer"`

	// Split emits one document per evidence item instead of one per publication.
	Split bool `json:"split" yaml:"split" mapstructure:"split"`

	// Infer runs the inference builder before assembly.
	Infer bool `json:"infer" yaml:"infer" mapstructure:"infer"`
}

// MetaConfig holds settings for the bibliographic metadata source.
type MetaConfig struct {
	// Path is the metadata CSV. Empty means every document gets an empty shell.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Fields restricts which metadata columns are kept. Empty keeps all.
	Fields []string `json:"fields" yaml:"fields" mapstructure:"fields"`

	// AllowEmpty keeps rows that lack pubmed_id or sha.
	AllowEmpty bool `json:"allow_empty" yaml:"allow_empty" mapstructure:"allow_empty"`
}

// CheckpointConfig holds settings for persisted intermediate aggregates.
type CheckpointConfig struct {
	// Dir is the local artifact directory. Empty disables checkpoints
	// unless S3Bucket is set.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// S3Bucket stores artifacts in object storage instead of Dir.
	S3Bucket string `json:"s3_bucket" yaml:"s3_bucket" mapstructure:"s3_bucket"`

	// S3Prefix is prepended to artifact keys.
	S3Prefix string `json:"s3_prefix" yaml:"s3_prefix" mapstructure:"s3_prefix"`

	// S3Endpoint overrides the S3 endpoint for S3-compatible stores.
	S3Endpoint string `json:"s3_endpoint" yaml:"s3_endpoint" mapstructure:"s3_endpoint"`

	// S3Region is the signing region.
	S3Region string `json:"s3_region" yaml:"s3_region" mapstructure:"s3_region"`
}

// IndexBackend identifies the index sink implementation.
type IndexBackend string

const (
	BackendSQLite        IndexBackend = "sqlite"
	BackendElasticsearch IndexBackend = "elasticsearch"
	BackendFile          IndexBackend = "file"
)

// IndexConfig holds settings for the index sink.
type IndexConfig struct {
	// Backend selects sqlite, elasticsearch, or file.
	Backend IndexBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// DBPath is the SQLite index file for the sqlite backend.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// OutputPath is the .jsonl or .yaml file for the file backend.
	OutputPath string `json:"output_path" yaml:"output_path" mapstructure:"output_path"`

	// Addresses lists Elasticsearch node URLs.
	Addresses []string `json:"addresses" yaml:"addresses" mapstructure:"addresses"`

	// Username is the Elasticsearch user; the password comes from secrets.
	Username string `json:"username" yaml:"username" mapstructure:"username"`

	// Timeout bounds each Elasticsearch request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxResults is the default search result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// GraphConfig holds settings for exporting the inferred graph to Neo4j.
type GraphConfig struct {
	// URI is the Bolt URI, e.g. "neo4j://localhost:7687". Empty disables export.
	URI string `json:"uri" yaml:"uri" mapstructure:"uri"`

	// Username is the Neo4j user; the password comes from secrets.
	Username string `json:"username" yaml:"username" mapstructure:"username"`

	// BatchSize is the number of edges written per transaction (default 500).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// ProgressEvery logs progress after this many rows or statements.
	ProgressEvery int `json:"progress_every" yaml:"progress_every" mapstructure:"progress_every"`
}

// MetricsConfig holds settings for batch-run metrics.
type MetricsConfig struct {
	// TextfilePath receives the run's metrics in Prometheus text format.
	// Empty disables the write.
	TextfilePath string `json:"textfile_path" yaml:"textfile_path" mapstructure:"textfile_path"`
}

// PipelineConfig groups all settings for a biorel-index run.
type PipelineConfig struct {
	Mappings   MappingConfig    `json:"mappings" yaml:"mappings" mapstructure:"mappings"`
	Relations  RelationConfig   `json:"relations" yaml:"relations" mapstructure:"relations"`
	Statements StatementsConfig `json:"statements" yaml:"statements" mapstructure:"statements"`
	Meta       MetaConfig       `json:"meta" yaml:"meta" mapstructure:"meta"`
	Checkpoint CheckpointConfig `json:"checkpoint" yaml:"checkpoint" mapstructure:"checkpoint"`
	Index      IndexConfig      `json:"index" yaml:"index" mapstructure:"index"`
	Graph      GraphConfig      `json:"graph" yaml:"graph" mapstructure:"graph"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" mapstructure:"logging"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// DefaultConfig returns the configuration used when no file or flag overrides it.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Mappings: MappingConfig{
			DBPath:   "data/mappings.db",
			InputDir: "raw_data",
		},
		Relations: RelationConfig{
			Kind: "chem-gene",
		},
		Statements: StatementsConfig{
			Recognizer: "prose",
		},
		Checkpoint: CheckpointConfig{
			Dir: "data/checkpoints",
		},
		Index: IndexConfig{
			Backend:    BackendSQLite,
			DBPath:     "data/index.db",
			Addresses:  []string{"http://localhost:9200"},
			Timeout:    100 * time.Second,
			MaxResults: 20,
		},
		Graph: GraphConfig{
			BatchSize: 500,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			ProgressEvery: 10000,
		},
	}
}

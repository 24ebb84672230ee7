package profile

import (
	"encoding/json"
	"strings"

	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/rules"
)

type rawArtifact struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Path string `json:"path"`
	Size uint64 `json:"size"`
	SHA1 string `json:"sha1"`
}

type rawLibrary struct {
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	Rules     []rules.Rule `json:"rules"`
	Downloads struct {
		Artifact    *rawArtifact           `json:"artifact"`
		Classifiers map[string]rawArtifact `json:"classifiers"`
	} `json:"downloads"`
	Natives map[string]string `json:"natives"`
	Extract struct {
		Exclude []string `json:"exclude"`
	} `json:"extract"`
}

type rawArgument struct {
	Value json.RawMessage `json:"value"`
	Rules []rules.Rule    `json:"rules"`
}

type rawProfile struct {
	ID           string `json:"id"`
	InheritsFrom string `json:"inheritsFrom"`
	Type         string `json:"type"`
	MainClass    string `json:"mainClass"`
	Assets       string `json:"assets"`
	JavaVersion  struct {
		Component    string `json:"component"`
		MajorVersion int    `json:"majorVersion"`
	} `json:"javaVersion"`
	Libraries  []rawLibrary            `json:"libraries"`
	Downloads  map[string]*rawArtifact `json:"downloads"`
	AssetIndex *rawArtifact            `json:"assetIndex"`
	Logging    struct {
		Client *struct {
			Argument string       `json:"argument"`
			File     *rawArtifact `json:"file"`
		} `json:"client"`
	} `json:"logging"`
	Arguments *struct {
		Game []json.RawMessage `json:"game"`
		JVM  []json.RawMessage `json:"jvm"`
	} `json:"arguments"`
	MinecraftArguments string `json:"minecraftArguments"`
	Patches            []struct {
		ID      string `json:"id"`
		Version string `json:"version"`
	} `json:"patches"`
}

// manifest is a Profile backed by a single parsed manifest document.
type manifest struct {
	id             string
	version        string
	inheritsFrom   string
	versionType    string
	mainClass      string
	assetID        string
	jreComponent   string
	jreVersion     int
	libraries      []Library
	jvmArgs        []Argument
	gameArgs       []Argument
	assetIndex     *artifact.Artifact
	loggingConfig  *artifact.Artifact
	client         *artifact.Artifact
	clientMappings *artifact.Artifact
}

func (m *manifest) ID() string                         { return m.id }
func (m *manifest) Version() string                    { return m.version }
func (m *manifest) InheritsFrom() string               { return m.inheritsFrom }
func (m *manifest) Libraries() []Library               { return m.libraries }
func (m *manifest) JVMArgs() []Argument                { return m.jvmArgs }
func (m *manifest) GameArgs() []Argument               { return m.gameArgs }
func (m *manifest) MainClass() string                  { return m.mainClass }
func (m *manifest) AssetID() string                    { return m.assetID }
func (m *manifest) AssetIndex() *artifact.Artifact     { return m.assetIndex }
func (m *manifest) LoggingConfig() *artifact.Artifact  { return m.loggingConfig }
func (m *manifest) JREComponent() string               { return m.jreComponent }
func (m *manifest) JREVersion() int                    { return m.jreVersion }
func (m *manifest) Client() *artifact.Artifact         { return m.client }
func (m *manifest) ClientMappings() *artifact.Artifact { return m.clientMappings }
func (m *manifest) VersionType() string                { return m.versionType }

// Parse decodes one manifest document. A manifest must at least carry an id.
func Parse(data []byte) (Profile, error) {
	var raw rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrProfileParse, err.Error())
	}
	if strings.TrimSpace(raw.ID) == "" {
		return nil, errors.Wrap(errors.ErrProfileParse, "missing id")
	}

	m := &manifest{
		id:           raw.ID,
		inheritsFrom: raw.InheritsFrom,
		versionType:  raw.Type,
		mainClass:    raw.MainClass,
		assetID:      raw.Assets,
		jreComponent: raw.JavaVersion.Component,
		jreVersion:   raw.JavaVersion.MajorVersion,
		version:      resolveVersion(&raw),
		assetIndex:   raw.AssetIndex.toArtifact(),
	}
	if m.assetID == "" && raw.AssetIndex != nil {
		m.assetID = raw.AssetIndex.ID
	}
	if raw.Downloads != nil {
		m.client = raw.Downloads["client"].toArtifact()
		m.clientMappings = raw.Downloads["client_mappings"].toArtifact()
	}

	for _, rl := range raw.Libraries {
		m.libraries = append(m.libraries, rl.toLibrary())
	}

	var err error
	if strings.TrimSpace(raw.MinecraftArguments) != "" {
		for _, f := range strings.Fields(raw.MinecraftArguments) {
			m.gameArgs = append(m.gameArgs, Literal(f))
		}
	} else if raw.Arguments != nil {
		if m.gameArgs, err = parseArguments(raw.Arguments.Game); err != nil {
			return nil, errors.Wrapf(errors.ErrProfileParse, "%s: game arguments: %v", raw.ID, err)
		}
	}

	if raw.Arguments != nil {
		if m.jvmArgs, err = parseArguments(raw.Arguments.JVM); err != nil {
			return nil, errors.Wrapf(errors.ErrProfileParse, "%s: jvm arguments: %v", raw.ID, err)
		}
	} else {
		if m.jvmArgs, err = FallbackJVMArgs(); err != nil {
			return nil, errors.Wrapf(errors.ErrProfileParse, "fallback jvm arguments: %v", err)
		}
	}

	if c := raw.Logging.Client; c != nil {
		m.loggingConfig = c.File.toArtifact()
		if strings.TrimSpace(c.Argument) != "" {
			m.jvmArgs = append(m.jvmArgs, Literal(c.Argument))
		}
	}

	return m, nil
}

func resolveVersion(raw *rawProfile) string {
	for _, p := range raw.Patches {
		if p.ID == "game" && p.Version != "" {
			return p.Version
		}
	}
	if raw.InheritsFrom != "" {
		return raw.InheritsFrom
	}
	return raw.ID
}

func (r *rawArtifact) toArtifact() *artifact.Artifact {
	if r == nil {
		return nil
	}
	path := r.Path
	if path == "" {
		path = r.ID
	}
	checksum := ""
	if r.SHA1 != "" {
		checksum = artifact.FormatChecksum("sha1", r.SHA1)
	}
	a := artifact.New(r.URL, path, r.Size, checksum)
	return &a
}

func (r rawLibrary) toLibrary() Library {
	lib := Library{
		Name:           r.Name,
		Rules:          r.Rules,
		Natives:        r.Natives,
		ExtractExclude: r.Extract.Exclude,
	}
	if r.Downloads.Artifact != nil {
		lib.Artifact = r.Downloads.Artifact.toArtifact()
	} else if a := mavenArtifact(r.Name, r.URL); a != nil {
		lib.Artifact = a
		lib.Synthesized = true
	}
	if len(r.Downloads.Classifiers) > 0 {
		lib.Classifiers = make(map[string]artifact.Artifact, len(r.Downloads.Classifiers))
		for k, v := range r.Downloads.Classifiers {
			lib.Classifiers[k] = *v.toArtifact()
		}
	}
	return lib
}

// mavenArtifact derives a jar artifact from a group:artifact:version[:classifier]
// coordinate and a repository base URL.
func mavenArtifact(name, repo string) *artifact.Artifact {
	if strings.TrimSpace(repo) == "" {
		return nil
	}
	parts := strings.Split(name, ":")
	if len(parts) < 3 {
		return nil
	}
	group, id, version := parts[0], parts[1], parts[2]
	file := id + "-" + version
	if len(parts) > 3 && parts[3] != "" {
		file += "-" + parts[3]
	}
	path := strings.ReplaceAll(group, ".", "/") + "/" + id + "/" + version + "/" + file + ".jar"
	if !strings.HasSuffix(repo, "/") {
		repo += "/"
	}
	a := artifact.New(repo+path, path, 0, "")
	return &a
}

func replaceArch(key string) string {
	return strings.ReplaceAll(key, "${arch}", "64")
}

func parseArguments(raw []json.RawMessage) ([]Argument, error) {
	out := make([]Argument, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, Literal(s))
			continue
		}
		var obj rawArgument
		if err := json.Unmarshal(r, &obj); err != nil {
			return nil, err
		}
		values, err := stringOrList(obj.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Conditional{Value: values, Conditions: obj.Rules})
	}
	return out, nil
}

func stringOrList(v json.RawMessage) ([]string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return []string{s}, nil
	}
	var list []string
	if err := json.Unmarshal(v, &list); err != nil {
		return nil, errors.Wrap(errors.ErrProfileParse, "argument value must be a string or a list of strings")
	}
	return list, nil
}

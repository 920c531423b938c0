package program

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/richinsley/goshaderhost/shader"
)

var (
	reMissingSemicolon = regexp.MustCompile(`\)\s*}`)
	reUniform          = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*;`)
	reLayoutIn         = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+\w+\s+(\w+)\s*;`)
	rePlainIn          = regexp.MustCompile(`(?m)^\s*(?:in|attribute)\s+(\w+)\s+(\w+)\s*;`)
	reOut              = regexp.MustCompile(`(?m)^\s*out\s+(\w+)\s+(\w+)\s*;`)
)

type fakeShader struct {
	stage shader.Stage
	text  string
}

type fakeProgram struct {
	attribs  map[string]int32
	uniforms []UniformDescriptor
}

type uniformWrite struct {
	program uint32
	name    string
	value   []float32
}

// fakeDevice mimics a GL driver closely enough to exercise the core: it
// rejects obviously broken sources, checks varyings at link time and derives
// attribute and uniform tables from declarations.
type fakeDevice struct {
	next     uint32
	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
	bound    uint32

	compileCalls    int
	linkCalls       int
	uniformLookups  map[string]int
	deletedPrograms []uint32
	writes          []uniformWrite
	locNames        map[int32]string
	compileWarning  string
	failLinkAlways  bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		next:           1,
		shaders:        make(map[uint32]*fakeShader),
		programs:       make(map[uint32]*fakeProgram),
		uniformLookups: make(map[string]int),
		locNames:       make(map[int32]string),
	}
}

func (d *fakeDevice) alloc() uint32 {
	h := d.next
	d.next++
	return h
}

func (d *fakeDevice) CompileShader(stage shader.Stage, text string) (uint32, bool, string) {
	d.compileCalls++
	h := d.alloc()
	d.shaders[h] = &fakeShader{stage: stage, text: text}
	if strings.Count(text, "{") != strings.Count(text, "}") {
		return h, false, "0:1(1): error: syntax error, unbalanced braces"
	}
	if reMissingSemicolon.MatchString(text) {
		return h, false, "0:1(1): error: syntax error, unexpected '}', expecting ';'"
	}
	return h, true, d.compileWarning
}

func (d *fakeDevice) DeleteShader(h uint32) {
	if _, ok := d.shaders[h]; !ok {
		panic(fmt.Sprintf("delete of unknown shader %d", h))
	}
	delete(d.shaders, h)
}

func (d *fakeDevice) LinkProgram(shaders ...uint32) (uint32, bool, string) {
	d.linkCalls++
	h := d.alloc()
	p := &fakeProgram{attribs: make(map[string]int32)}
	d.programs[h] = p
	if d.failLinkAlways {
		return h, false, "error: linking disabled"
	}

	var vs, fs *fakeShader
	for _, s := range shaders {
		switch d.shaders[s].stage {
		case shader.Vertex:
			vs = d.shaders[s]
		case shader.Fragment:
			fs = d.shaders[s]
		}
	}
	if vs == nil || fs == nil {
		return h, false, "error: missing stage"
	}

	outputs := map[string]string{}
	for _, m := range reOut.FindAllStringSubmatch(vs.text, -1) {
		outputs[m[2]] = m[1]
	}
	for _, m := range rePlainIn.FindAllStringSubmatch(fs.text, -1) {
		if outputs[m[2]] != m[1] {
			return h, false, fmt.Sprintf("error: fragment input %s %s has no matching vertex output", m[1], m[2])
		}
	}

	next := int32(0)
	for _, m := range reLayoutIn.FindAllStringSubmatch(vs.text, -1) {
		loc, _ := strconv.Atoi(m[1])
		p.attribs[m[2]] = int32(loc)
		if int32(loc) >= next {
			next = int32(loc) + 1
		}
	}
	for _, m := range rePlainIn.FindAllStringSubmatch(vs.text, -1) {
		if _, ok := p.attribs[m[2]]; !ok {
			p.attribs[m[2]] = next
			next++
		}
	}

	seen := map[string]bool{}
	for _, text := range []string{vs.text, fs.text} {
		for _, m := range reUniform.FindAllStringSubmatch(text, -1) {
			if seen[m[2]] {
				continue
			}
			seen[m[2]] = true
			p.uniforms = append(p.uniforms, UniformDescriptor{Name: m[2], Kind: kindOf(m[1])})
		}
	}
	return h, true, ""
}

func kindOf(glslType string) UniformKind {
	switch glslType {
	case "float":
		return KindFloat
	case "int":
		return KindInt
	case "vec2":
		return KindVec2
	case "vec3":
		return KindVec3
	case "vec4":
		return KindVec4
	}
	return KindOther
}

func (d *fakeDevice) DeleteProgram(h uint32) {
	if _, ok := d.programs[h]; !ok {
		panic(fmt.Sprintf("delete of unknown program %d", h))
	}
	delete(d.programs, h)
	d.deletedPrograms = append(d.deletedPrograms, h)
}

func (d *fakeDevice) UseProgram(h uint32) { d.bound = h }

func (d *fakeDevice) AttribLocation(program uint32, name string) int32 {
	if loc, ok := d.programs[program].attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDevice) UniformLocation(program uint32, name string) int32 {
	d.uniformLookups[fmt.Sprintf("%d/%s", program, name)]++
	for i, u := range d.programs[program].uniforms {
		if u.Name == name {
			loc := int32(program)*100 + int32(i)
			d.locNames[loc] = name
			return loc
		}
	}
	return -1
}

func (d *fakeDevice) ActiveUniforms(program uint32) []UniformDescriptor {
	return append([]UniformDescriptor(nil), d.programs[program].uniforms...)
}

func (d *fakeDevice) write(loc int32, v ...float32) {
	if loc/100 != int32(d.bound) {
		panic(fmt.Sprintf("uniform write to location %d while program %d is bound", loc, d.bound))
	}
	d.writes = append(d.writes, uniformWrite{program: d.bound, name: d.locNames[loc], value: v})
}

func (d *fakeDevice) Uniform1f(loc int32, v float32)          { d.write(loc, v) }
func (d *fakeDevice) Uniform1i(loc int32, v int32)            { d.write(loc, float32(v)) }
func (d *fakeDevice) Uniform2f(loc int32, x, y float32)       { d.write(loc, x, y) }
func (d *fakeDevice) Uniform3f(loc int32, x, y, z float32)    { d.write(loc, x, y, z) }
func (d *fakeDevice) Uniform4f(loc int32, x, y, z, w float32) { d.write(loc, x, y, z, w) }

// lastWrite returns the most recent value written to name.
func (d *fakeDevice) lastWrite(name string) (uniformWrite, bool) {
	for i := len(d.writes) - 1; i >= 0; i-- {
		if d.writes[i].name == name {
			return d.writes[i], true
		}
	}
	return uniformWrite{}, false
}

// fakeTranslator renames identifiers the way a source-to-source translator
// would and fails on sources marked untranslatable.
type fakeTranslator struct {
	rename map[string]string
	calls  int
}

func (t *fakeTranslator) Translate(src shader.Source) (string, map[string]string, error) {
	t.calls++
	if strings.Contains(src.Text, "untranslatable") {
		return "", nil, fmt.Errorf("ERROR: 0:12: 'untranslatable' : undeclared identifier")
	}
	code := strings.Replace(src.Text, "#version 300 es", "#version 410 core", 1)
	names := map[string]string{}
	for from, to := range t.rename {
		re := regexp.MustCompile(`\b` + from + `\b`)
		if re.MatchString(code) {
			code = re.ReplaceAllString(code, to)
			names[from] = to
		}
	}
	return code, names, nil
}

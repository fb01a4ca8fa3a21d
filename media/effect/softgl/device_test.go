package softgl

import (
	"strings"
	"testing"

	"github.com/chwjbn/vector-hub/media/effect"
)

func TestCheckSource(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"valid", "#version 330 core\nvoid main() { }\n", ""},
		{"no version", "void main() { }\n", "#version"},
		{"unmatched brace", "#version 330 core\nvoid main() {\n", "unmatched '{'"},
		{"stray paren", "#version 330 core\nvoid main() { f()); }\n", "unexpected ')'"},
		{"no main", "#version 330 core\nvoid start() { }\n", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkSource(tt.src)
			if tt.wantErr == "" {
				if got != "" {
					t.Errorf("checkSource() = %q, want no error", got)
				}
				return
			}
			if !strings.Contains(got, tt.wantErr) {
				t.Errorf("checkSource() = %q, want it to contain %q", got, tt.wantErr)
			}
		})
	}
}

func TestLinkStages(t *testing.T) {
	vertex := "#version 330 core\nuniform vec2 scale;\nuniform mat2 mat;\nout vec2 uv;\nvoid main() { }\n"

	tests := []struct {
		name     string
		fragment string
		wantLog  string
		wantLocs map[string]int32
	}{
		{
			name:     "matching interface",
			fragment: "#version 330 core\nuniform vec4 color;\nin vec2 uv;\nvoid main() { }\n",
			wantLocs: map[string]int32{"color": 0, "mat": 1, "scale": 2},
		},
		{
			name:     "missing output",
			fragment: "#version 330 core\nin vec2 st;\nvoid main() { }\n",
			wantLog:  "st",
		},
		{
			name:     "type mismatch",
			fragment: "#version 330 core\nin vec3 uv;\nvoid main() { }\n",
			wantLog:  "vec3",
		},
		{
			name:     "uniform type clash",
			fragment: "#version 330 core\nuniform vec4 scale;\nvoid main() { }\n",
			wantLog:  "scale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uniforms, log := linkStages(vertex, tt.fragment)
			if tt.wantLog != "" {
				if !strings.Contains(log, tt.wantLog) {
					t.Errorf("log = %q, want it to contain %q", log, tt.wantLog)
				}
				return
			}
			if log != "" {
				t.Fatalf("log = %q, want none", log)
			}
			for name, loc := range tt.wantLocs {
				if u, ok := uniforms[name]; !ok || u.loc != loc {
					t.Errorf("uniform %s = %+v, want location %d", name, u, loc)
				}
			}
		})
	}
}

func newTarget(t *testing.T, d *Device, w int32, h int32, samples int32, stencil bool) uint32 {
	t.Helper()

	fbo := d.GenFramebuffer()
	d.BindFramebuffer(effect.Framebuffer, fbo)

	tex := d.GenTexture()
	if samples > 0 {
		d.BindTexture(effect.Texture2DMultisample, tex)
		d.TexImage2DMultisample(effect.Texture2DMultisample, samples, effect.RGBA8, w, h)
		d.FramebufferTexture2D(effect.Framebuffer, effect.ColorAttachment0, effect.Texture2DMultisample, tex)
	} else {
		d.BindTexture(effect.Texture2D, tex)
		d.TexImage2D(effect.Texture2D, int32(effect.RGBA8), w, h, effect.RGBA, nil)
		d.FramebufferTexture2D(effect.Framebuffer, effect.ColorAttachment0, effect.Texture2D, tex)
	}

	if stencil {
		rb := d.GenRenderbuffer()
		d.BindRenderbuffer(rb)
		d.RenderbufferStorageMultisample(samples, effect.Depth24Stencil8, w, h)
		d.FramebufferRenderbuffer(effect.Framebuffer, effect.DepthStencilAttachment, rb)
	}

	return fbo
}

func TestFramebufferStatus(t *testing.T) {
	d := New(8, 8)

	empty := d.GenFramebuffer()
	d.BindFramebuffer(effect.Framebuffer, empty)
	if got := d.CheckFramebufferStatus(effect.Framebuffer); got != effect.FramebufferIncompleteMissingAttachment {
		t.Errorf("empty framebuffer status = %s", effect.FramebufferStatusName(got))
	}

	newTarget(t, d, 8, 8, 4, true)
	if got := d.CheckFramebufferStatus(effect.Framebuffer); got != effect.FramebufferComplete {
		t.Errorf("multisample target status = %s", effect.FramebufferStatusName(got))
	}

	// color with 4 samples, stencil with 2
	fbo := newTarget(t, d, 8, 8, 4, false)
	rb := d.GenRenderbuffer()
	d.BindRenderbuffer(rb)
	d.RenderbufferStorageMultisample(2, effect.Depth24Stencil8, 8, 8)
	d.BindFramebuffer(effect.Framebuffer, fbo)
	d.FramebufferRenderbuffer(effect.Framebuffer, effect.DepthStencilAttachment, rb)
	if got := d.CheckFramebufferStatus(effect.Framebuffer); got != effect.FramebufferIncompleteMultisample {
		t.Errorf("mixed sample status = %s", effect.FramebufferStatusName(got))
	}

	d.BindFramebuffer(effect.Framebuffer, 0)
	if got := d.CheckFramebufferStatus(effect.Framebuffer); got != effect.FramebufferComplete {
		t.Errorf("default framebuffer status = %s", effect.FramebufferStatusName(got))
	}

	if code := d.GetError(); code != effect.NoError {
		t.Errorf("GetError() = %s", effect.ErrorName(code))
	}
}

func TestClearHonoursStencilMask(t *testing.T) {
	d := New(4, 4)
	newTarget(t, d, 4, 4, 1, true)

	d.ClearStencil(0xFF)
	d.Clear(effect.StencilBufferBit)

	d.StencilMask(0x0F)
	d.ClearStencil(0)
	d.Clear(effect.StencilBufferBit)

	if s, ok := d.StencilAt(1, 1); !ok || s != 0xF0 {
		t.Errorf("stencil = %#x (%v), want 0xf0", s, ok)
	}
}

func TestBlitAndReadPixels(t *testing.T) {
	d := New(4, 4)

	ms := newTarget(t, d, 3, 2, 4, false)
	d.ClearColor(0, 1, 0, 1)
	d.Clear(effect.ColorBufferBit)

	single := newTarget(t, d, 3, 2, 0, false)

	d.BindFramebuffer(effect.ReadFramebuffer, ms)
	d.BindFramebuffer(effect.DrawFramebuffer, single)

	d.BlitFramebuffer(0, 0, 3, 2, 0, 0, 6, 4, effect.ColorBufferBit, effect.Nearest)
	if code := d.GetError(); code != effect.InvalidOperation {
		t.Errorf("scaled multisample blit error = %s, want GL_INVALID_OPERATION", effect.ErrorName(code))
	}

	d.BlitFramebuffer(0, 0, 3, 2, 0, 0, 3, 2, effect.ColorBufferBit, effect.Nearest)

	d.BindFramebuffer(effect.ReadFramebuffer, ms)
	d.ReadPixels(0, 0, 3, 2, make([]byte, 3*2*4))
	if code := d.GetError(); code != effect.InvalidOperation {
		t.Errorf("multisample read error = %s, want GL_INVALID_OPERATION", effect.ErrorName(code))
	}

	// 3 pixel rows are 12 bytes; with alignment 8 each row is padded to 16
	d.BindFramebuffer(effect.ReadFramebuffer, single)
	d.PixelStorei(effect.PackAlignment, 8)
	pix := make([]byte, 16+12)
	d.ReadPixels(0, 0, 3, 2, pix)

	for _, i := range []int{0, 4, 8, 16, 20, 24} {
		if pix[i] != 0 || pix[i+1] != 0xFF || pix[i+2] != 0 || pix[i+3] != 0xFF {
			t.Errorf("pixel at byte %d = %v, want opaque green", i, pix[i:i+4])
		}
	}
	if pix[12] != 0 || pix[15] != 0 {
		t.Errorf("row padding was written: %v", pix[12:16])
	}
	if code := d.GetError(); code != effect.NoError {
		t.Errorf("GetError() = %s", effect.ErrorName(code))
	}
}

func TestDrawRequiresProgramAndVertexArray(t *testing.T) {
	d := New(4, 4)

	d.DrawArrays(effect.Triangles, 0, 3)
	if code := d.GetError(); code != effect.InvalidOperation {
		t.Errorf("draw without program error = %s", effect.ErrorName(code))
	}

	vs := d.CreateShader(effect.VertexShader)
	d.ShaderSource(vs, "#version 330 core\nconst vec2 v[4] = vec2[4](vec2(0.0), vec2(0.0), vec2(0.0), vec2(0.0));\nvoid main() { gl_Position = vec4(v[gl_VertexID], 0.0, 1.0); }\n")
	d.CompileShader(vs)
	fs := d.CreateShader(effect.FragmentShader)
	d.ShaderSource(fs, "#version 330 core\nout vec4 c;\nvoid main() { c = vec4(1.0); }\n")
	d.CompileShader(fs)

	prog := d.CreateProgram()
	d.AttachShader(prog, vs)
	d.AttachShader(prog, fs)
	d.LinkProgram(prog)
	if !d.ProgramLinked(prog) {
		t.Fatalf("link failed: %s", d.ProgramInfoLog(prog))
	}
	d.UseProgram(prog)

	d.DrawArrays(effect.TriangleStrip, 0, 4)
	if code := d.GetError(); code != effect.InvalidOperation {
		t.Errorf("draw without vertex array error = %s", effect.ErrorName(code))
	}

	vao := d.GenVertexArray()
	d.BindVertexArray(vao)
	d.DrawArrays(effect.TriangleStrip, 0, 4)
	if code := d.GetError(); code != effect.NoError {
		t.Errorf("fullscreen draw error = %s", effect.ErrorName(code))
	}

	d.ClearColor(0, 0, 0, 1)
	if err := d.SwapBuffers(); err != nil {
		t.Fatal(err)
	}
	if got := d.Screen().RGBAAt(2, 2); got.R != 0xFF || got.G != 0xFF || got.B != 0xFF {
		t.Errorf("screen pixel = %v, want white", got)
	}
}

func TestLiveObjects(t *testing.T) {
	d := New(4, 4)

	buf := d.GenBuffer()
	tex := d.GenTexture()
	rb := d.GenRenderbuffer()

	if d.LiveTotal() != 3 {
		t.Fatalf("LiveTotal() = %d, want 3", d.LiveTotal())
	}
	if got := d.LiveSummary(); got != "buffer=1 renderbuffer=1 texture=1" {
		t.Errorf("LiveSummary() = %q", got)
	}

	d.DeleteBuffer(buf)
	d.DeleteTexture(tex)
	d.DeleteRenderbuffer(rb)
	d.DeleteTexture(tex)

	if d.LiveTotal() != 0 {
		t.Errorf("LiveTotal() = %d after delete, want 0", d.LiveTotal())
	}
}

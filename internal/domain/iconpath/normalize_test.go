package iconpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testEnv(vars map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "   ", want: ""},
		{name: "windows path", raw: `C:\Program Files\7-Zip\7zFM.exe`, want: "C:/Program Files/7-Zip/7zFM.exe"},
		{name: "icon index", raw: `C:\Program Files\App\app.exe,0`, want: "C:/Program Files/App/app.exe"},
		{name: "negative index", raw: `C:\Windows\system32\shell32.dll, -101`, want: "C:/Windows/system32/shell32.dll"},
		{name: "quoted with index", raw: `"C:\Program Files\App\app.exe",1`, want: "C:/Program Files/App/app.exe"},
		{name: "dot segments", raw: `C:\Program Files\App\..\Other\.\other.exe`, want: "C:/Program Files/Other/other.exe"},
		{name: "doubled separators", raw: `C:\\Tools\\\\tool.ico`, want: "C:/Tools/tool.ico"},
		{name: "posix", raw: "/opt/app//bin/app.png", want: "/opt/app/bin/app.png"},
		{name: "unc", raw: `\\server\share\app.exe`, want: "//server/share/app.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw))
		})
	}
}

func TestExpand(t *testing.T) {
	env := testEnv(map[string]string{
		"ProgramFiles": `C:\Program Files`,
		"SYSTEMROOT":   `C:\Windows`,
		"HOME":         "/home/user",
	})

	assert.Equal(t, `C:\Program Files\App\app.exe`, Expand(`%ProgramFiles%\App\app.exe`, env))
	assert.Equal(t, `C:\Windows\app.ico`, Expand(`%SystemRoot%\app.ico`, env), "falls back to upper case")
	assert.Equal(t, "/home/user/icons/a.png", Expand("$HOME/icons/a.png", env))
	assert.Equal(t, "/home/user/icons/a.png", Expand("${HOME}/icons/a.png", env))
	assert.Equal(t, `%Missing%\app.exe`, Expand(`%Missing%\app.exe`, env), "unknown placeholder kept")
	assert.Equal(t, "raw", Expand("raw", nil))
}

func TestNormalize(t *testing.T) {
	env := testEnv(map[string]string{"ProgramFiles(x86)": `C:\Program Files (x86)`})

	got := Normalize(`"%ProgramFiles(x86)%\Vendor\app.exe",0`, env)
	assert.Equal(t, "C:/Program Files (x86)/Vendor/app.exe", got)
}

func TestIsAbs(t *testing.T) {
	assert.True(t, IsAbs("C:/Program Files/app.exe"))
	assert.True(t, IsAbs("/usr/share/icons/a.png"))
	assert.True(t, IsAbs("//server/share/a.exe"))
	assert.False(t, IsAbs("app.exe"))
	assert.False(t, IsAbs("Vendor/app.exe"))
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".exe", Ext("C:/Program Files/App/APP.EXE"))
	assert.Equal(t, "", Ext("C:/Program Files/App/app"))
}

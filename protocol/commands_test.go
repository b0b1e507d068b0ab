package protocol

import (
	"reflect"
	"testing"
)

func TestRequest(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		args []string
		want string
	}{
		{
			name: "no argument",
			tag:  CmdGetBoardName,
			want: "<GET_BOARD_NAME>\r\n",
		},
		{
			name: "sector index",
			tag:  CmdEraseSector,
			args: []string{"5"},
			want: "<ERASE_SECTOR> 5\r\n",
		},
		{
			name: "hex record",
			tag:  CmdWriteHexRecord,
			args: []string{":020000040800F2"},
			want: "<WRITE_HEX_RECORD> :020000040800F2\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Request(tt.tag, tt.args...); got != tt.want {
				t.Errorf("Request() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantTag  string
		wantArgs []string
	}{
		{name: "empty", line: "", wantTag: ""},
		{name: "only spaces", line: "   ", wantTag: ""},
		{name: "tag only", line: "<LOCK_FIRMWARE>", wantTag: "<LOCK_FIRMWARE>", wantArgs: []string{}},
		{name: "tag and argument", line: "<ERASE_SECTOR> 5", wantTag: "<ERASE_SECTOR>", wantArgs: []string{"5"}},
		{name: "double space", line: "<ERASE_SECTOR>  5", wantTag: "<ERASE_SECTOR>", wantArgs: []string{"5"}},
		{name: "extra argument", line: "<ERASE_SECTOR> 5 6", wantTag: "<ERASE_SECTOR>", wantArgs: []string{"5", "6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, args := Split(tt.line)
			if tag != tt.wantTag {
				t.Errorf("tag = %q, want %q", tag, tt.wantTag)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %q, want %q", args, tt.wantArgs)
			}
			if len(args) > 0 && !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %q, want %q", args, tt.wantArgs)
			}
		})
	}
}

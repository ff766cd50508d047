/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package stringcompress

// The tables below are the fixed, compile-time codebook mined offline from a
// large Message-ID corpus (spec §4.1). They are a tabulated constant, not
// retrained per archive: every archive built by this toolchain shares the
// same 256-opcode alphabet for non-host code units.

// codeBook maps each opcode byte (0..255) to its decoded code unit.
// Entries 0 and 1 are nil: 0 is the end-of-string marker, 1 is the
// host-reference opcode (followed by a 1-byte host id), both handled
// specially by Pack/Unpack rather than through this table.
var codeBook = [256]string{
	0: "",
	1: "",
	2: "$1",
	3: "000",
	4: "00",
	5: ".1",
	6: "0$",
	7: "$2",
	8: "01",
	9: "11",
	10: ".00",
	11: "10",
	12: "lrn",
	13: "slr",
	14: "20",
	15: "12",
	16: "dlg",
	17: ".dl",
	18: ".0",
	19: "0$1",
	20: ".2",
	21: ".3",
	22: ".4",
	23: "3$",
	24: "4$",
	25: "1$",
	26: "7$",
	27: "2$",
	28: "6$",
	29: "5$",
	30: "9$",
	31: "8$",
	32: " ",
	33: "!",
	34: "\"",
	35: "#",
	36: "$",
	37: "%",
	38: "&",
	39: "'",
	40: "(",
	41: ")",
	42: "*",
	43: "+",
	44: ",",
	45: "-",
	46: ".",
	47: "/",
	48: "0",
	49: "1",
	50: "2",
	51: "3",
	52: "4",
	53: "5",
	54: "6",
	55: "7",
	56: "8",
	57: "9",
	58: ":",
	59: ";",
	60: "<",
	61: "=",
	62: ">",
	63: "?",
	64: "@",
	65: "A",
	66: "B",
	67: "C",
	68: "D",
	69: "E",
	70: "F",
	71: "G",
	72: "H",
	73: "I",
	74: "J",
	75: "K",
	76: "L",
	77: "M",
	78: "N",
	79: "O",
	80: "P",
	81: "Q",
	82: "R",
	83: "S",
	84: "T",
	85: "U",
	86: "V",
	87: "W",
	88: "X",
	89: "Y",
	90: "Z",
	91: "[",
	92: "\\",
	93: "]",
	94: "^",
	95: "_",
	96: "`",
	97: "a",
	98: "b",
	99: "c",
	100: "d",
	101: "e",
	102: "f",
	103: "g",
	104: "h",
	105: "i",
	106: "j",
	107: "k",
	108: "l",
	109: "m",
	110: "n",
	111: "o",
	112: "p",
	113: "q",
	114: "r",
	115: "s",
	116: "t",
	117: "u",
	118: "v",
	119: "w",
	120: "x",
	121: "y",
	122: "z",
	123: "{",
	124: "|",
	125: "}",
	126: "~",
	127: "40",
	128: "4.",
	129: "02",
	130: "51",
	131: "05",
	132: "d$",
	133: "e$",
	134: "b$",
	135: "a$",
	136: "f$",
	137: "03",
	138: "c$",
	139: "21",
	140: "04",
	141: "90",
	142: "3.",
	143: "19",
	144: "13",
	145: "15",
	146: "14",
	147: "57",
	148: "30",
	149: "200",
	150: "k$",
	151: "85",
	152: "65",
	153: "$6",
	154: "1.",
	155: "l$",
	156: "41",
	157: "v$",
	158: "78",
	159: "h$",
	160: "t$",
	161: "i$",
	162: "j$",
	163: "n$",
	164: "p$",
	165: "s$",
	166: "g$",
	167: "r$",
	168: "m$",
	169: "rn",
	170: "o$",
	171: "3$1",
	172: "q$",
	173: "39",
	174: "16",
	175: "sl",
	176: "u$",
	177: "38",
	178: "37",
	179: "lr",
	180: "4$1",
	181: "22",
	182: "2$1",
	183: "1$1",
	184: "$3",
	185: "7$1",
	186: "dl",
	187: "5$1",
	188: "d$1",
	189: "6$1",
	190: "50",
	191: "8$1",
	192: "9$1",
	193: "a$1",
	194: "e$1",
	195: "17",
	196: "f$1",
	197: "b$1",
	198: "c$1",
	199: "80",
	200: "18",
	201: "42",
	202: "09",
	203: "60",
	204: "lg",
	205: "06",
	206: "k$1",
	207: "112",
	208: "l$1",
	209: "36",
	210: "s$1",
	211: "h$1",
	212: "o$1",
	213: "g$1",
	214: "v$1",
	215: "p$1",
	216: "43",
	217: "m$1",
	218: "i$1",
	219: "j$1",
	220: "r$1",
	221: "t$1",
	222: "n$1",
	223: "q$1",
	224: "u$1",
	225: "07",
	226: "44",
	227: "31",
	228: "70",
	229: "08",
	230: "23",
	231: "$0$",
	232: "99",
	233: "35",
	234: "91",
	235: ".d",
	236: "24",
	237: "34",
	238: "25",
	239: "45",
	240: "100",
	241: "2.",
	242: "$4",
	243: "98",
	244: "0.",
	245: "32",
	246: "26",
	247: "92",
	248: "33",
	249: "001",
	250: "46",
	251: "27",
	252: "81",
	253: "93",
	254: "96",
	255: "47",
}

// bigramTable holds the 116 two-character code units eligible for
// bigram compression, sorted lexicographically for binary search.
var bigramTable = [...]string{
	"$1",
	"$2",
	"$3",
	"$4",
	"$6",
	".0",
	".1",
	".2",
	".3",
	".4",
	".d",
	"0$",
	"0.",
	"00",
	"01",
	"02",
	"03",
	"04",
	"05",
	"06",
	"07",
	"08",
	"09",
	"1$",
	"1.",
	"10",
	"11",
	"12",
	"13",
	"14",
	"15",
	"16",
	"17",
	"18",
	"19",
	"2$",
	"2.",
	"20",
	"21",
	"22",
	"23",
	"24",
	"25",
	"26",
	"27",
	"3$",
	"3.",
	"30",
	"31",
	"32",
	"33",
	"34",
	"35",
	"36",
	"37",
	"38",
	"39",
	"4$",
	"4.",
	"40",
	"41",
	"42",
	"43",
	"44",
	"45",
	"46",
	"47",
	"5$",
	"50",
	"51",
	"57",
	"6$",
	"60",
	"65",
	"7$",
	"70",
	"78",
	"8$",
	"80",
	"81",
	"85",
	"9$",
	"90",
	"91",
	"92",
	"93",
	"96",
	"98",
	"99",
	"a$",
	"b$",
	"c$",
	"d$",
	"dl",
	"e$",
	"f$",
	"g$",
	"h$",
	"i$",
	"j$",
	"k$",
	"l$",
	"lg",
	"lr",
	"m$",
	"n$",
	"o$",
	"p$",
	"q$",
	"r$",
	"rn",
	"s$",
	"sl",
	"t$",
	"u$",
	"v$",
}

// bigramOpcode[i] is the opcode byte that decodes to bigramTable[i].
var bigramOpcode = [...]uint8{
	2, 7, 184, 242, 153, 18, 5, 20,
	21, 22, 235, 6, 244, 4, 8, 129,
	137, 140, 131, 205, 225, 229, 202, 25,
	154, 11, 9, 15, 144, 146, 145, 174,
	195, 200, 143, 27, 241, 14, 139, 181,
	230, 236, 238, 246, 251, 23, 142, 148,
	227, 245, 248, 237, 233, 209, 178, 177,
	173, 24, 128, 127, 156, 201, 216, 226,
	239, 250, 255, 29, 190, 130, 147, 28,
	203, 152, 26, 228, 158, 31, 199, 252,
	151, 30, 141, 234, 247, 253, 254, 243,
	232, 135, 134, 138, 132, 186, 133, 136,
	166, 159, 161, 162, 150, 155, 204, 179,
	168, 163, 170, 164, 172, 167, 169, 165,
	175, 160, 176, 157,
}

// trigramTable holds the 43 three-character code units eligible
// for trigram compression, sorted lexicographically for binary search.
var trigramTable = [...]string{
	"$0$",
	".00",
	".dl",
	"0$1",
	"000",
	"001",
	"1$1",
	"100",
	"112",
	"2$1",
	"200",
	"3$1",
	"4$1",
	"5$1",
	"6$1",
	"7$1",
	"8$1",
	"9$1",
	"a$1",
	"b$1",
	"c$1",
	"d$1",
	"dlg",
	"e$1",
	"f$1",
	"g$1",
	"h$1",
	"i$1",
	"j$1",
	"k$1",
	"l$1",
	"lrn",
	"m$1",
	"n$1",
	"o$1",
	"p$1",
	"q$1",
	"r$1",
	"s$1",
	"slr",
	"t$1",
	"u$1",
	"v$1",
}

// trigramOpcode[i] is the opcode byte that decodes to trigramTable[i].
var trigramOpcode = [...]uint8{
	231, 10, 17, 19, 3, 249, 183, 240,
	207, 182, 149, 171, 180, 187, 189, 185,
	191, 192, 193, 197, 198, 188, 16, 194,
	196, 213, 211, 218, 219, 206, 208, 12,
	217, 222, 212, 215, 223, 220, 210, 13,
	221, 224, 214,
}

package display

// Icon is a small bitmap; any non-space rune is a lit pixel.
type Icon []string

var (
	IconCPU = Icon{
		"  # # # # #   ",
		" ############ ",
		"##          ##",
		" # ######## # ",
		"## #      # ##",
		" # # #### # # ",
		"## # #### # ##",
		" # # #### # # ",
		"## #      # ##",
		" # ######## # ",
		"##          ##",
		" ############ ",
		"  # # # # #   ",
	}
	IconTemp = Icon{
		"    ##    ",
		"   #  #   ",
		"   #  # ##",
		"   #  #   ",
		"   #### ##",
		"   ####   ",
		"   #### ##",
		"   ####   ",
		"  ######  ",
		" ######## ",
		" ######## ",
		"  ######  ",
		"   ####   ",
	}
	IconHome = Icon{
		"      #       ",
		"     ###      ",
		"    ## ##     ",
		"   ##   ##    ",
		"  ##     ##   ",
		" ##       ##  ",
		"###########   ",
		" #         #  ",
		" #  ##  ## #  ",
		" #  ##  ## #  ",
		" #         #  ",
		" #  ###    #  ",
		" #  ###    #  ",
	}
	IconAntenna = Icon{
		" #         # ",
		"#  #     #  #",
		"# #  ###  # #",
		"# #  ###  # #",
		"#  #  #  #  #",
		" #    #    # ",
		"      #      ",
		"     ###     ",
		"     # #     ",
		"    #   #    ",
		"    #   #    ",
		"   #     #   ",
		"  #########  ",
	}
)

// An installer for the Thonny Linux bundle.
//
// The installer ships inside the unpacked distribution tree. It copies that tree to a
// target directory (by default ~/apps/thonny), writes a start menu entry, a desktop
// shortcut and an uninstaller from the bundled templates, precompiles the bundled
// Python library and asks the desktop environment to pick up the new menu entry.
//
// Run it as:
//
//	./install [destination_directory]
//
// The destination is the parent directory, "thonny" is appended to it.
package linux_installer

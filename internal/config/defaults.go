package config

// DefaultConfigContent is written by `wintools init` and is also the base every
// loaded configuration is decoded over. Paths assume the file lives in the
// projects/ directory of the source tree.
const DefaultConfigContent = `# wintools configuration
#
# Relative paths are resolved against the directory holding this file.
# Backslashes and forward slashes are both accepted.

# PACKAGING
#
# binDir holds the compiled executables and DLLs.
binDir: output
# Platforms a package may be built for (wintools package --platform).
platforms:
  - win32
# Archiver used by archive steps: "builtin" (zip) or "7z".
archiver: builtin
sevenZipPath: 7z

# Variables shared by every product. Step strings may reference these and the
# builtins $output, $platform, $product, $start_dir, $bin_dir and $version as
# $name or ${name}. Variables may reference each other.
vars:
  tmp_dir: $start_dir/packaging/temp
  tools_src_dir: $start_dir/../src/tools
  gui_src_dir: $start_dir/gui/win32

# Each product is an ordered list of steps. Actions:
#   clean   {path}                   remove and recreate a directory
#   mkdir   {path}                   create a directory
#   copy    {from, to, optional}     copy files (from may be a glob)
#   archive {source, output, exclude} archive the contents of source
#   exec    {command, dir}           run a command
products:
  tools:
    steps:
      - {action: clean, path: $tmp_dir}
      - {action: mkdir, path: $tmp_dir/bin}
      - {action: mkdir, path: $tmp_dir/src}
      - {action: copy, from: "$bin_dir/*tool*exe", to: $tmp_dir/bin}
      - {action: copy, from: "$bin_dir/*.dll", to: $tmp_dir/bin, optional: true}
      - {action: copy, from: "$tools_src_dir/*cc", to: $tmp_dir/src}
      - {action: copy, from: "$tools_src_dir/*h", to: $tmp_dir/src}
      - {action: copy, from: $start_dir/readme, to: $tmp_dir}
      - {action: copy, from: "$start_dir/libs/*.pfb", to: $tmp_dir/bin}
      - {action: copy, from: $start_dir/../testset/zadani.pdf, to: $tmp_dir/bin/test.pdf}
      - {action: archive, source: $tmp_dir, output: $output, exclude: ["*CVS*"]}
  gui:
    steps:
      - {action: clean, path: $tmp_dir}
      - {action: mkdir, path: $tmp_dir/bin}
      - {action: mkdir, path: $tmp_dir/src}
      - {action: copy, from: "$bin_dir/*gui*exe", to: $tmp_dir/bin}
      - {action: copy, from: "$bin_dir/*.dll", to: $tmp_dir/bin, optional: true}
      - {action: copy, from: "$start_dir/libs/*.pfb", to: $tmp_dir/bin}
      - {action: copy, from: $start_dir/packaging/gui.installer/config, to: $tmp_dir/bin}
      - {action: copy, from: $start_dir/readme, to: $tmp_dir}
      - {action: copy, from: $start_dir/../testset/zadani.pdf, to: $tmp_dir/bin/test.pdf}
      - {action: copy, from: "$gui_src_dir/*cpp", to: $tmp_dir/src}
      - {action: copy, from: "$gui_src_dir/*h", to: $tmp_dir/src}
      - {action: archive, source: $tmp_dir, output: $output, exclude: ["*CVS*"]}

# PROJECT GENERATION (wintools create-vcproj)
vcproj:
  # Directory scanned for tool sources; one project is generated per source.
  toolsDir: ../src/tools
  # Directory the .vcproj files are written to.
  outputDir: tools
  sourceExt: .cc
  exclude:
    - common.cc
  # 9 = Visual Studio 2008.
  vsVersion: 9
  # "sequential" increments the highest existing GUID; "random" uses fresh UUIDs.
  guidMode: sequential
  seedGuid: F4B0B7E4-A405-4EB1-A74F-0765181FE3BC

# SOLUTION UPDATE (wintools add-to-sln)
solution:
  path: pdfedit.vc2008.sln
  # Directory holding the .vcproj files to list in the solution.
  vcprojDir: tools
  # Solution-relative directory of the projects, as written in Project lines.
  projectDir: tools
  # Where the updated solution is written; empty means <path>.test.sln.
  output: ""
`

package generator

// scriptHeader is the fixed leading section of every generated installer:
// color helpers, help text, flag parsing, and the directory/file creation
// functions. The per-scan sections are appended after it.
const scriptHeader = `#!/bin/bash

# %s
# Recreates the captured framework folder structure with all content
# Generated by qfi

# Colors for output
RED='\033[0;31m'
GREEN='\033[0;32m'
YELLOW='\033[1;33m'
BLUE='\033[0;34m'
NC='\033[0m' # No Color

# Function to print colored output
print_status() {
    local color=$1
    local message=$2
    echo -e "${color}${message}${NC}"
}

# Function to show help
show_help() {
    cat << EOF
Framework Setup Script

USAGE:
    $0 [OPTIONS]

DESCRIPTION:
    Recreates the complete framework folder structure with all rules,
    scripts, and documentation files from the original source environment.

OPTIONS:
    -h, --help          Show this help message
    -f, --force         Overwrite existing files without backup
    -b, --backup-dir    Specify custom backup directory (default: .qfi_backup_TIMESTAMP)
    -v, --verbose       Enable verbose output
    -d, --dry-run       Show what would be created without making changes

OPERATION TYPE:
    Read-only: NO - This script creates directories and files
    Mutating: YES - Modifies filesystem structure

EXAMPLES:
    $0                      # Create complete structure
    $0 -v                   # Create with verbose output
    $0 --dry-run            # Preview what would be created
    $0 -f                   # Force overwrite existing files

EOF
}

# Default values
FORCE=false
VERBOSE=false
DRY_RUN=false
BACKUP_DIR=""

# Parse command line arguments
while [[ $# -gt 0 ]]; do
    case $1 in
        -h|--help)
            show_help
            exit 0
            ;;
        -f|--force)
            FORCE=true
            shift
            ;;
        -v|--verbose)
            VERBOSE=true
            shift
            ;;
        -d|--dry-run)
            DRY_RUN=true
            shift
            ;;
        -b|--backup-dir)
            BACKUP_DIR="$2"
            shift 2
            ;;
        *)
            print_status $RED "Unknown option: $1"
            echo "Use -h or --help for usage information"
            exit 1
            ;;
    esac
done

# Set backup directory if not specified
if [[ -z "$BACKUP_DIR" ]]; then
    BACKUP_DIR=".qfi_backup_$(date +%%Y%%m%%d_%%H%%M%%S)"
fi

# Verbose logging function
log_verbose() {
    if [[ "$VERBOSE" == true ]]; then
        print_status $BLUE "  -> $1"
    fi
}

# Dry run logging function
log_dry_run() {
    if [[ "$DRY_RUN" == true ]]; then
        print_status $YELLOW "DRY RUN: $1"
    fi
}

# Function to create directory
create_directory() {
    local dir_path=$1

    log_dry_run "Would create directory: $dir_path"

    if [[ "$DRY_RUN" == false ]]; then
        if [[ ! -d "$dir_path" ]]; then
            mkdir -p "$dir_path"
            log_verbose "Created directory: $dir_path"
            print_status $GREEN "✓ Created directory: $dir_path"
        else
            log_verbose "Directory already exists: $dir_path"
            print_status $YELLOW "✓ Directory exists: $dir_path"
        fi
    fi
}

# Function to backup existing file
backup_file() {
    local file_path=$1
    local backup_path="$BACKUP_DIR/$(dirname "$file_path")"

    if [[ -f "$file_path" ]] && [[ "$FORCE" == false ]]; then
        log_dry_run "Would backup: $file_path -> $backup_path/"

        if [[ "$DRY_RUN" == false ]]; then
            mkdir -p "$backup_path"
            cp "$file_path" "$backup_path/"
            log_verbose "Backed up: $file_path"
            print_status $YELLOW "✓ Backed up existing: $file_path"
        fi
        return 0
    fi
    return 1
}

# Function to create file from base64 content
create_file_from_base64() {
    local file_path=$1
    local base64_content=$2

    log_dry_run "Would create file: $file_path"

    if [[ "$DRY_RUN" == false ]]; then
        # Backup existing file if it exists and force is not set
        backup_file "$file_path"

        # Create directory if it doesn't exist
        mkdir -p "$(dirname "$file_path")"

        # Decode and create the file
        echo "$base64_content" | base64 -d > "$file_path"
        log_verbose "Created file: $file_path"
        print_status $GREEN "✓ Created file: $file_path"
    fi
}
`

// scriptFooter is the fixed trailing section: the main function that runs
// the generated create_directories/create_files calls and summarizes.
const scriptFooter = `
# Main execution
main() {
    print_status $BLUE "=== Framework Setup ==="

    if [[ "$DRY_RUN" == true ]]; then
        print_status $YELLOW "DRY RUN MODE - No changes will be made"
        echo ""
    fi

    # Create directory structure
    create_directories
    echo ""

    # Create all files
    create_files
    echo ""

    print_status $GREEN "=== Setup Complete ==="

    if [[ "$DRY_RUN" == false ]]; then
        echo ""
        print_status $BLUE "Framework structure recreated at: $(pwd)"

        if [[ -d "$BACKUP_DIR" ]]; then
            print_status $YELLOW "Existing files backed up to: $BACKUP_DIR"
        fi

        echo ""
        print_status $BLUE "Framework is ready for use!"
    fi
}

# Run main function
main
`

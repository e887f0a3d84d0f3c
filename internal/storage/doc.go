/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package storage holds the on-disk pieces of the app.
// WriteFileAtomic replaces files through a temp file and rename, so readers never see a partial image or config.
// The export journal is a local SQLite database (exports.sqlite in the config dir) listing completed exports.
// It records metadata only and can be deleted at any time.
package storage
